package board

import (
	"errors"
	"fmt"
	"strings"
)

// Point is a position in board units (millimetres).
type Point struct {
	X float64
	Y float64
}

// Size is the width and height of a footprint's courtyard in its unrotated frame.
type Size struct {
	Width  float64
	Height float64
}

// Side identifies which face of the board a footprint is mounted on.
type Side int

const (
	Top Side = iota
	Bottom
)

func (s Side) String() string {
	if s == Bottom {
		return "bottom"
	}
	return "top"
}

// Mount is the assembly technology of a footprint.
type Mount int

const (
	SMT Mount = iota
	PTH
)

func (m Mount) String() string {
	if m == PTH {
		return "PTH"
	}
	return "SMT"
}

// Flags are the placement-relevant attributes of a footprint.
type Flags struct {
	Virtual             bool
	DNP                 bool // do not place
	BoardOnly           bool
	ExcludeFromPosFiles bool
	ExcludeFromBOM      bool
}

// Board is the extracted content of a KiCad PCB file.
type Board struct {
	Version   string
	Generator string

	// DrillOrigin is the auxiliary axis origin declared in the board setup.
	// KiCad omits it when it sits at (0,0), so nil means "not declared".
	DrillOrigin *Point
	GridOrigin  *Point

	Footprints []Footprint
}

// Footprint is a placed component read from a footprint block.
type Footprint struct {
	Reference string
	Position  Point   // KiCad board coordinates, Y grows downwards
	Rotation  float64 // degrees, counter-clockwise as viewed from the top

	Library string // part before ':' in the footprint identifier
	Package string // footprint name
	Value   string
	Side    Side
	Mount   Mount
	Size    *Size // nil when the footprint has no courtyard
	Flags   Flags

	// Attributes holds every property of the footprint by name, including
	// ones this package does not interpret.
	Attributes map[string]string

	Line int
}

// Attribute returns a property value and whether it was present.
func (f *Footprint) Attribute(name string) (string, bool) {
	v, ok := f.Attributes[name]
	return v, ok
}

// ExcludeReason returns why the footprint must not appear in placement
// output, or "" when it is placeable. Do-not-place parts are reported
// last so keepDNP can override only that reason.
func (f *Footprint) ExcludeReason(keepDNP bool) string {
	switch {
	case f.Flags.Virtual:
		return "virtual"
	case f.Flags.BoardOnly:
		return "board only"
	case f.Flags.ExcludeFromPosFiles:
		return "excluded from position files"
	case f.Flags.ExcludeFromBOM:
		return "excluded from BOM"
	case f.Flags.DNP && !keepDNP:
		return "do not place"
	}
	return ""
}

// ErrParse matches every *ParseError via errors.Is.
var ErrParse = errors.New("parse error")

// ParseError reports malformed or incomplete board input.
type ParseError struct {
	Path      string // set by callers that know the file name
	Line      int
	Reference string // footprint reference, when known
	Msg       string
}

func (e *ParseError) Error() string {
	var sb strings.Builder
	if e.Path != "" {
		sb.WriteString(e.Path)
		sb.WriteString(":")
	}
	if e.Line > 0 {
		fmt.Fprintf(&sb, "%d:", e.Line)
	}
	if sb.Len() > 0 {
		sb.WriteString(" ")
	}
	if e.Reference != "" {
		fmt.Fprintf(&sb, "footprint %s: ", e.Reference)
	}
	sb.WriteString(e.Msg)
	return sb.String()
}

func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}
