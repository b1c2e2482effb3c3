package placement

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/kataras/kicad-xyrs/pkg/board"
)

// ErrOriginUnavailable is returned when the requested origin mode has no
// basis in the board data.
var ErrOriginUnavailable = errors.New("origin unavailable")

// OriginError reports why an origin mode could not be resolved. Path is
// filled in by callers that know which board file was read.
type OriginError struct {
	Path string
	Mode OriginMode
	Err  error
}

func (e *OriginError) Error() string {
	msg := fmt.Sprintf("%s mode: %v", e.Mode, e.Err)
	if e.Path != "" {
		return e.Path + ": " + msg
	}
	return msg
}

func (e *OriginError) Unwrap() error { return e.Err }

// OriginKind selects how the origin point is derived.
type OriginKind int

const (
	// OriginOverride uses the point carried by the mode, (0,0) unless set.
	OriginOverride OriginKind = iota
	// OriginDrill uses the board's auxiliary axis (drill) origin.
	OriginDrill
	// OriginCenter uses the center of the included footprints' bounding box.
	OriginCenter
	OriginTopLeft
	OriginTopRight
	OriginBottomLeft
	OriginBottomRight
)

var originKindNames = map[OriginKind]string{
	OriginOverride:    "override",
	OriginDrill:       "drill",
	OriginCenter:      "center",
	OriginTopLeft:     "topleft",
	OriginTopRight:    "topright",
	OriginBottomLeft:  "bottomleft",
	OriginBottomRight: "bottomright",
}

func (k OriginKind) String() string {
	if name, ok := originKindNames[k]; ok {
		return name
	}
	return "OriginKind(" + strconv.Itoa(int(k)) + ")"
}

// OriginMode is the configured origin selection. Point is only meaningful
// for OriginOverride.
type OriginMode struct {
	Kind  OriginKind
	Point board.Point
}

// Override returns an override mode pinned to (x, y).
func Override(x, y float64) OriginMode {
	return OriginMode{Kind: OriginOverride, Point: board.Point{X: x, Y: y}}
}

func (m OriginMode) String() string {
	if m.Kind == OriginOverride && m.Point != (board.Point{}) {
		return fmt.Sprintf("override:%g,%g", m.Point.X, m.Point.Y)
	}
	return m.Kind.String()
}

// OriginModeNames lists the accepted mode names, for help text.
func OriginModeNames() []string {
	return []string{"center", "drill", "topleft", "topright", "bottomleft", "bottomright", "override[:X,Y]"}
}

// ParseOriginMode parses a mode name, case-insensitively. The override mode
// accepts an optional payload: "override:12.5,-3". "origin" is an alias of
// a plain override at (0,0).
func ParseOriginMode(s string) (OriginMode, error) {
	name, payload, hasPayload := strings.Cut(strings.TrimSpace(s), ":")
	name = strings.ToLower(name)

	if name == "origin" && !hasPayload {
		return OriginMode{Kind: OriginOverride}, nil
	}

	for kind, kindName := range originKindNames {
		if kindName != name {
			continue
		}
		if !hasPayload {
			return OriginMode{Kind: kind}, nil
		}
		if kind != OriginOverride {
			return OriginMode{}, fmt.Errorf("origin mode %q does not take coordinates", name)
		}
		xs, ys, ok := strings.Cut(payload, ",")
		if !ok {
			return OriginMode{}, fmt.Errorf("invalid override origin %q: want override:X,Y", s)
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
		if err != nil {
			return OriginMode{}, fmt.Errorf("invalid override X %q: %w", xs, err)
		}
		y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
		if err != nil {
			return OriginMode{}, fmt.Errorf("invalid override Y %q: %w", ys, err)
		}
		return Override(x, y), nil
	}

	return OriginMode{}, fmt.Errorf("unknown origin mode %q (must be one of %s)", s, strings.Join(OriginModeNames(), ", "))
}

// Origin is the reference point all exported coordinates are relative to,
// in board coordinates, plus a rotation of the output frame in degrees.
type Origin struct {
	board.Point
	Rotation float64
}

// ResolveOptions tune origin resolution.
type ResolveOptions struct {
	// NoDrillCenter makes drill mode fall back to (0,0) when the board does
	// not declare a drill origin, instead of failing.
	NoDrillCenter bool
	// Rotation is the counter-clockwise rotation of the output frame.
	Rotation float64
}

// ResolveOrigin computes the active origin for mode. included must already
// be filtered: excluded footprints never influence the bounding box.
func ResolveOrigin(b *board.Board, included []board.Footprint, mode OriginMode, opts ResolveOptions) (Origin, error) {
	origin := Origin{Rotation: opts.Rotation}

	switch mode.Kind {
	case OriginOverride:
		origin.Point = mode.Point
		return origin, nil

	case OriginDrill:
		if b != nil && b.DrillOrigin != nil {
			origin.Point = *b.DrillOrigin
			return origin, nil
		}
		if opts.NoDrillCenter {
			return origin, nil
		}
		return Origin{}, &OriginError{Mode: mode, Err: fmt.Errorf("%w: board declares no drill origin (aux_axis_origin)", ErrOriginUnavailable)}
	}

	lo, hi, ok := Bounds(included)
	if !ok {
		return Origin{}, &OriginError{Mode: mode, Err: fmt.Errorf("%w: no placeable footprint to bound", ErrOriginUnavailable)}
	}

	// Board coordinates grow downwards, so "top" is the minimum Y.
	switch mode.Kind {
	case OriginCenter:
		origin.Point = board.Point{X: (lo.X + hi.X) / 2, Y: (lo.Y + hi.Y) / 2}
	case OriginTopLeft:
		origin.Point = board.Point{X: lo.X, Y: lo.Y}
	case OriginTopRight:
		origin.Point = board.Point{X: hi.X, Y: lo.Y}
	case OriginBottomLeft:
		origin.Point = board.Point{X: lo.X, Y: hi.Y}
	case OriginBottomRight:
		origin.Point = board.Point{X: hi.X, Y: hi.Y}
	default:
		return Origin{}, &OriginError{Mode: mode, Err: errors.New("unknown origin mode")}
	}
	return origin, nil
}

// Bounds returns the min and max corners of the footprint positions.
// ok is false for an empty list.
func Bounds(fps []board.Footprint) (lo, hi board.Point, ok bool) {
	if len(fps) == 0 {
		return board.Point{}, board.Point{}, false
	}
	lo = board.Point{X: math.Inf(1), Y: math.Inf(1)}
	hi = board.Point{X: math.Inf(-1), Y: math.Inf(-1)}
	for _, fp := range fps {
		lo.X = math.Min(lo.X, fp.Position.X)
		lo.Y = math.Min(lo.Y, fp.Position.Y)
		hi.X = math.Max(hi.X, fp.Position.X)
		hi.Y = math.Max(hi.Y, fp.Position.Y)
	}
	return lo, hi, true
}
