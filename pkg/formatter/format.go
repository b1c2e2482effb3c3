package formatter

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/kataras/kicad-xyrs/pkg/board"
)

// ErrUnsupportedFormat matches every *UnsupportedFormatError via errors.Is.
var ErrUnsupportedFormat = errors.New("unsupported format")

// UnsupportedFormatError is returned by Lookup for unknown format names.
type UnsupportedFormatError struct {
	Name string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported output format %q (must be one of %s)", e.Name, strings.Join(Names(), ", "))
}

func (e *UnsupportedFormatError) Is(target error) bool {
	return target == ErrUnsupportedFormat
}

// Column is one output field: its header text and how to render it.
type Column struct {
	Header string
	Value  func(f *Format, fp *board.Footprint) string
}

// Format describes an output schema.
type Format struct {
	Name string

	// DefaultOrigin is the origin mode used when none is configured.
	DefaultOrigin string

	Unit      Unit
	Delimiter rune
	QuoteAll  bool

	// Decimals is the rounding applied to lengths and angles. With
	// FixedDecimals every number is padded to exactly that many places;
	// otherwise trailing zeros are dropped.
	Decimals      int
	FixedDecimals bool

	Columns []Column
}

// Header returns the column titles in order.
func (f *Format) Header() []string {
	header := make([]string, len(f.Columns))
	for i, c := range f.Columns {
		header[i] = c.Header
	}
	return header
}

// Rows projects each footprint through the column list. fps must already be
// filtered and transformed; Rows does not drop or reorder anything.
func (f *Format) Rows(fps []board.Footprint) [][]string {
	rows := make([][]string, 0, len(fps))
	for i := range fps {
		row := make([]string, len(f.Columns))
		for j, c := range f.Columns {
			row[j] = c.Value(f, &fps[i])
		}
		rows = append(rows, row)
	}
	return rows
}

// WithUnit returns a copy of f writing lengths in u.
func (f *Format) WithUnit(u Unit) *Format {
	c := *f
	c.Unit = u
	return &c
}

func (f *Format) round(v float64) float64 {
	scale := math.Pow(10, float64(f.Decimals))
	r := math.Round(v*scale) / scale
	if r == 0 {
		r = 0 // no "-0"
	}
	return r
}

func (f *Format) text(r float64) string {
	if f.FixedDecimals {
		return strconv.FormatFloat(r, 'f', f.Decimals, 64)
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

func (f *Format) number(v float64) string {
	return f.text(f.round(v))
}

// angle prints a rotation in degrees. Values that round up to a full turn
// print as 0 so every printed angle stays in [0, 360).
func (f *Format) angle(deg float64) string {
	r := f.round(deg)
	if r >= 360 {
		r = f.round(r - 360)
	}
	return f.text(r)
}

func (f *Format) length(mm float64) string {
	return f.number(f.Unit.Convert(mm))
}

var formats = map[string]*Format{
	"default":  defaultFormat,
	"macrofab": macrofabFormat,
}

// Lookup returns the format registered under name, case-insensitively.
func Lookup(name string) (*Format, error) {
	if f, ok := formats[strings.ToLower(strings.TrimSpace(name))]; ok {
		return f, nil
	}
	return nil, &UnsupportedFormatError{Name: name}
}

// Names returns the registered format names, sorted.
func Names() []string {
	names := make([]string, 0, len(formats))
	for name := range formats {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
