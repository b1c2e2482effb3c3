package kicadxyrs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kataras/kicad-xyrs/pkg/board"
	"github.com/kataras/kicad-xyrs/pkg/formatter"
	"github.com/kataras/kicad-xyrs/pkg/placement"
)

// Version is the current release.
const Version = "0.3.0"

// Options configures the extraction.
type Options struct {
	BoardPath string // .kicad_pcb file
	Data      []byte // board contents; when nil BoardPath is read

	Format        string  // "default" or "macrofab"; empty = "default"
	Origin        string  // origin mode; empty = the format's default
	NoDrillCenter bool    // drill mode falls back to (0,0) without a drill origin
	Units         string  // overrides the format's unit when set
	Rotation      float64 // output frame rotation, degrees counter-clockwise
	KeepDNP       bool    // keep do-not-place parts, marked in the DNP/Populate columns
	Sort          bool    // natural sort by reference instead of file order

	Logger Logger // nil = no logging
}

// Logger receives progress messages. A nil Logger means silent operation.
type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Result contains the extraction output.
type Result struct {
	Board      *board.Board
	Placements []board.Footprint // transformed, in output order
	Skipped    []placement.Skipped
	Origin     placement.Origin
	Format     *formatter.Format
	Output     []byte // serialized file contents
}

func (o *Options) logInfo(f string, a ...any) {
	if o.Logger != nil {
		o.Logger.Infof(f, a...)
	}
}

func (o *Options) logWarn(f string, a ...any) {
	if o.Logger != nil {
		o.Logger.Warnf(f, a...)
	}
}

// Run executes the parse, filter, transform and serialize pipeline. It never
// writes files; pass Result.Output to WriteFile.
func Run(opts Options) (*Result, error) {
	if opts.Format == "" {
		opts.Format = "default"
	}

	// Resolve configuration before touching the board so that bad settings
	// fail fast.
	format, err := formatter.Lookup(opts.Format)
	if err != nil {
		return nil, err
	}
	if opts.Units != "" {
		unit, err := formatter.ParseUnit(opts.Units)
		if err != nil {
			return nil, err
		}
		format = format.WithUnit(unit)
	}

	modeName := opts.Origin
	if modeName == "" {
		modeName = format.DefaultOrigin
	}
	mode, err := placement.ParseOriginMode(modeName)
	if err != nil {
		return nil, err
	}

	data := opts.Data
	if data == nil {
		if opts.BoardPath == "" {
			return nil, errors.New("no board file given")
		}
		opts.logInfo("Reading %s...", opts.BoardPath)
		data, err = os.ReadFile(opts.BoardPath)
		if err != nil {
			return nil, fmt.Errorf("read board: %w", err)
		}
	}

	opts.logInfo("Parsing board...")
	b, err := board.Parse(data)
	if err != nil {
		var pe *board.ParseError
		if errors.As(err, &pe) && pe.Path == "" {
			pe.Path = opts.BoardPath
		}
		return nil, fmt.Errorf("parse board: %w", err)
	}
	opts.logInfo("Found %d footprint(s)", len(b.Footprints))

	included, skipped := placement.Filter(b.Footprints, placement.FilterOptions{KeepDNP: opts.KeepDNP})
	for _, s := range skipped {
		opts.logInfo("Skipping %s (%s)", s.Reference, s.Reason)
	}
	for _, ref := range placement.DuplicateReferences(included) {
		opts.logWarn("Reference %s is used by more than one footprint", ref)
	}
	for i := range included {
		if _, ok := included[i].Attribute(formatter.MPNProperty); !ok {
			opts.logWarn("%s: field %s not found, inserting empty string", included[i].Reference, formatter.MPNProperty)
		}
	}

	origin, err := placement.ResolveOrigin(b, included, mode, placement.ResolveOptions{
		NoDrillCenter: opts.NoDrillCenter,
		Rotation:      opts.Rotation,
	})
	if err != nil {
		var oe *placement.OriginError
		if errors.As(err, &oe) && oe.Path == "" {
			oe.Path = opts.BoardPath
		}
		return nil, fmt.Errorf("resolve origin: %w", err)
	}
	opts.logInfo("Origin (%s): %g, %g", mode, origin.X, origin.Y)

	placements := placement.NewTransform(origin).Apply(included)
	if opts.Sort {
		placement.SortByReference(placements)
	}

	opts.logInfo("Formatting %d placement(s) as %s...", len(placements), format.Name)
	out, err := format.Marshal(placements)
	if err != nil {
		return nil, fmt.Errorf("format %s: %w", format.Name, err)
	}

	return &Result{
		Board:      b,
		Placements: placements,
		Skipped:    skipped,
		Origin:     origin,
		Format:     format,
		Output:     out,
	}, nil
}

// WriteFile writes data to path through a temporary file in the same
// directory and renames it into place, so a failed run never leaves a
// truncated output behind.
func WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
