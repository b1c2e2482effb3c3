package formatter

import (
	"github.com/kataras/kicad-xyrs/pkg/board"
)

// MPNProperty is the footprint property holding the manufacturer part number.
const MPNProperty = "Manufacturer Part Number"

func column(header string, value func(f *Format, fp *board.Footprint) string) Column {
	return Column{Header: header, Value: value}
}

var (
	colReference = func(_ *Format, fp *board.Footprint) string { return fp.Reference }
	colSide      = func(_ *Format, fp *board.Footprint) string { return fp.Side.String() }
	colX         = func(f *Format, fp *board.Footprint) string { return f.length(fp.Position.X) }
	colY         = func(f *Format, fp *board.Footprint) string { return f.length(fp.Position.Y) }
	colRotation  = func(f *Format, fp *board.Footprint) string { return f.angle(fp.Rotation) }
	colMount     = func(_ *Format, fp *board.Footprint) string { return fp.Mount.String() }
	colValue     = func(_ *Format, fp *board.Footprint) string { return fp.Value }
	colPackage   = func(_ *Format, fp *board.Footprint) string { return fp.Package }
	colLibrary   = func(_ *Format, fp *board.Footprint) string { return fp.Library }
	colMPN       = func(_ *Format, fp *board.Footprint) string { return fp.Attributes[MPNProperty] }

	colWidth = func(f *Format, fp *board.Footprint) string {
		if fp.Size == nil {
			return f.length(0)
		}
		return f.length(fp.Size.Width)
	}
	colHeight = func(f *Format, fp *board.Footprint) string {
		if fp.Size == nil {
			return f.length(0)
		}
		return f.length(fp.Size.Height)
	}
	colDNP = func(_ *Format, fp *board.Footprint) string {
		if fp.Flags.DNP {
			return "1"
		}
		return "0"
	}
	colPopulate = func(_ *Format, fp *board.Footprint) string {
		if fp.Flags.DNP {
			return "0"
		}
		return "1"
	}
)

// defaultFormat is a general centroid file in millimetres.
var defaultFormat = &Format{
	Name:          "default",
	DefaultOrigin: "drill",
	Unit:          Millimetre,
	Delimiter:     ',',
	Decimals:      4,
	Columns: []Column{
		column("ref des", colReference),
		column("side", colSide),
		column("x", colX),
		column("y", colY),
		column("rotation", colRotation),
		column("type", colMount),
		column("x size", colWidth),
		column("y size", colHeight),
		column("value", colValue),
		column("footprint", colPackage),
		column("library", colLibrary),
		column("DNP", colDNP),
		column(MPNProperty, colMPN),
	},
}

// macrofabFormat is the MacroFab XYRS upload format. Column names and order
// are fixed by the upload parser and must not change.
var macrofabFormat = &Format{
	Name:          "macrofab",
	DefaultOrigin: "bottomleft",
	Unit:          Thou,
	Delimiter:     '\t',
	QuoteAll:      true,
	Decimals:      2,
	FixedDecimals: true,
	Columns: []Column{
		column("Designator", colReference),
		column("X-Loc", colX),
		column("Y-Loc", colY),
		column("Rotation", colRotation),
		column("Side", colSide),
		column("Type", colMount),
		column("X-Size", colWidth),
		column("Y-Size", colHeight),
		column("Value", colValue),
		column("Footprint", colPackage),
		column("Populate", colPopulate),
		column(MPNProperty, colMPN),
	},
}
