package board

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadSample(t *testing.T) *Board {
	t.Helper()

	data, err := os.ReadFile("testdata/sample.kicad_pcb")
	require.NoError(t, err)

	b, err := Parse(data)
	require.NoError(t, err)
	return b
}

func TestParseSampleBoard(t *testing.T) {
	b := loadSample(t)

	assert.Equal(t, "20240108", b.Version)
	assert.Equal(t, "pcbnew", b.Generator)
	require.NotNil(t, b.DrillOrigin)
	assert.Equal(t, Point{X: 100, Y: 150}, *b.DrillOrigin)
	require.NotNil(t, b.GridOrigin)
	assert.Equal(t, Point{X: 50, Y: 50}, *b.GridOrigin)

	require.Len(t, b.Footprints, 4)
	refs := make([]string, len(b.Footprints))
	for i, fp := range b.Footprints {
		refs[i] = fp.Reference
	}
	assert.Equal(t, []string{"R1", "J1", "C10", "H1"}, refs, "file order must be preserved")
}

func TestParseFootprintFields(t *testing.T) {
	b := loadSample(t)

	r1 := b.Footprints[0]
	assert.Equal(t, "R1", r1.Reference)
	assert.Equal(t, Point{X: 110, Y: 140}, r1.Position)
	assert.Equal(t, 90.0, r1.Rotation)
	assert.Equal(t, "Resistor_SMD", r1.Library)
	assert.Equal(t, "R_0603_1608Metric", r1.Package)
	assert.Equal(t, "10k", r1.Value)
	assert.Equal(t, Top, r1.Side)
	assert.Equal(t, SMT, r1.Mount)
	assert.Equal(t, Flags{}, r1.Flags)
	require.NotNil(t, r1.Size, "courtyard lines give a size")
	assert.InDelta(t, 2.96, r1.Size.Width, 1e-9, "silkscreen must not widen the courtyard")
	assert.InDelta(t, 1.46, r1.Size.Height, 1e-9)

	mpn, ok := r1.Attribute("Manufacturer Part Number")
	assert.True(t, ok)
	assert.Equal(t, "RC0603FR-0710KL", mpn)

	j1 := b.Footprints[1]
	assert.Equal(t, Bottom, j1.Side)
	assert.Equal(t, PTH, j1.Mount)
	assert.Equal(t, -90.0, j1.Rotation, "parser keeps the raw angle")
	require.NotNil(t, j1.Size)
	assert.InDelta(t, 3.6, j1.Size.Width, 1e-9)
	assert.InDelta(t, 6.15, j1.Size.Height, 1e-9)
	_, ok = j1.Attribute("Manufacturer Part Number")
	assert.False(t, ok)

	c10 := b.Footprints[2]
	assert.Equal(t, 0.0, c10.Rotation, "missing angle defaults to 0")
	assert.True(t, c10.Flags.DNP)
	require.NotNil(t, c10.Size)
	assert.InDelta(t, 1.8, c10.Size.Width, 1e-9, "circle courtyard uses its diameter")

	h1 := b.Footprints[3]
	assert.True(t, h1.Flags.ExcludeFromPosFiles)
	assert.True(t, h1.Flags.ExcludeFromBOM)
	assert.Equal(t, SMT, h1.Mount, "non-plated holes are not PTH")
	assert.Nil(t, h1.Size)
}

func TestParseLegacyModules(t *testing.T) {
	const legacy = `(kicad_pcb (version 20171130) (host pcbnew 5.1.9)
  (general (thickness 1.6))
  (module Package_SO:SOIC-8_3.9x4.9mm_P1.27mm (layer F.Cu) (tedit 5A02F2D3) (tstamp 5E1A2B3C)
    (at 50.8 76.2 180)
    (fp_text reference U3 (at 0 -3.4) (layer F.SilkS))
    (fp_text value LM358 (at 0 3.4) (layer F.Fab))
    (fp_line (start -3.7 -2.7) (end 3.7 -2.7) (layer F.CrtYd) (width 0.05))
    (fp_line (start -3.7 2.7) (end 3.7 2.7) (layer F.CrtYd) (width 0.05))
    (pad 1 smd rect (at -2.475 -1.905 180) (size 1.95 0.6) (layers F.Cu F.Paste F.Mask))
  )
  (module Symbol:Logo (layer F.Cu) (at 10 10) (attr virtual)
    (fp_text reference G1 (at 0 0) (layer F.SilkS) hide)
  )
)`

	b, err := Parse([]byte(legacy))
	require.NoError(t, err)
	require.Len(t, b.Footprints, 2)
	assert.Nil(t, b.DrillOrigin)

	u3 := b.Footprints[0]
	assert.Equal(t, "U3", u3.Reference)
	assert.Equal(t, "LM358", u3.Value)
	assert.Equal(t, "SOIC-8_3.9x4.9mm_P1.27mm", u3.Package)
	assert.Equal(t, 180.0, u3.Rotation)
	require.NotNil(t, u3.Size)
	assert.InDelta(t, 7.4, u3.Size.Width, 1e-9)
	assert.InDelta(t, 5.4, u3.Size.Height, 1e-9)

	assert.True(t, b.Footprints[1].Flags.Virtual)
}

func TestParseIgnoresUnknownAttributes(t *testing.T) {
	const board = `(kicad_pcb (version 20240108)
  (footprint "Lib:Part" (layer "F.Cu") (at 1 2 45)
    (property "Reference" "U1")
    (property "Vendor Note" "keep dry")
    (sparkle_level 11 (glitter yes))
    (attr smd allow_missing_courtyard)
    (dnp no)))`

	b, err := Parse([]byte(board))
	require.NoError(t, err)
	require.Len(t, b.Footprints, 1)

	fp := b.Footprints[0]
	assert.Equal(t, "U1", fp.Reference)
	assert.Equal(t, 45.0, fp.Rotation)
	assert.False(t, fp.Flags.DNP)
	assert.Equal(t, "keep dry", fp.Attributes["Vendor Note"])
}

func TestParseStandaloneFlags(t *testing.T) {
	const board = `(kicad_pcb
  (footprint "Lib:Part" (layer "F.Cu") (at 0 0)
    (property "Reference" "U1")
    (dnp yes)
    (exclude_from_pos_files)))`

	b, err := Parse([]byte(board))
	require.NoError(t, err)
	assert.True(t, b.Footprints[0].Flags.DNP)
	assert.True(t, b.Footprints[0].Flags.ExcludeFromPosFiles)
}

func TestCourtyardArcs(t *testing.T) {
	tests := []struct {
		name          string
		arc           string
		width, height float64
	}{
		{
			name:   "sweep crosses three axis extremes",
			arc:    `(fp_arc (start 0.70710678 0.70710678) (mid -1 0) (end 0.70710678 -0.70710678) (layer "F.CrtYd"))`,
			width:  1.70710678,
			height: 2,
		},
		{
			name:   "quarter arc between extremes",
			arc:    `(fp_arc (start 1 0) (mid 0.70710678 0.70710678) (end 0 1) (layer "F.CrtYd"))`,
			width:  1,
			height: 1,
		},
		{
			name:   "legacy centre and angle",
			arc:    `(fp_arc (start 0 0) (end 1 0) (angle 180) (layer "F.CrtYd"))`,
			width:  2,
			height: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			board := `(kicad_pcb (footprint "Lib:Part" (at 0 0) (property "Reference" "U1") ` + tt.arc + `))`
			b, err := Parse([]byte(board))
			require.NoError(t, err)
			size := b.Footprints[0].Size
			require.NotNil(t, size)
			assert.InDelta(t, tt.width, size.Width, 1e-6)
			assert.InDelta(t, tt.height, size.Height, 1e-6)
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantRef string
	}{
		{
			name:  "malformed tokens",
			input: `(kicad_pcb (footprint "Lib:Part" (at 1 2)`,
		},
		{
			name:  "wrong root",
			input: `(kicad_sch (version 20231120))`,
		},
		{
			name:  "missing reference",
			input: `(kicad_pcb (footprint "Lib:Part" (layer "F.Cu") (at 1 2)))`,
		},
		{
			name:    "missing position",
			input:   `(kicad_pcb (footprint "Lib:Part" (layer "F.Cu") (property "Reference" "R7")))`,
			wantRef: "R7",
		},
		{
			name:    "non-numeric position",
			input:   `(kicad_pcb (footprint "Lib:Part" (at one 2) (property "Reference" "R8")))`,
			wantRef: "R8",
		},
		{
			name:    "non-finite position",
			input:   `(kicad_pcb (footprint "Lib:Part" (at NaN Inf 0) (property "Reference" "U1")))`,
			wantRef: "U1",
		},
		{
			name:    "non-finite rotation",
			input:   `(kicad_pcb (footprint "Lib:Part" (at 1 2 inf) (property "Reference" "U2")))`,
			wantRef: "U2",
		},
		{
			name:  "bad drill origin",
			input: `(kicad_pcb (setup (aux_axis_origin 1)))`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrParse), "error %v should match ErrParse", err)

			var pe *ParseError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, tt.wantRef, pe.Reference)
			if tt.wantRef != "" {
				assert.Contains(t, pe.Error(), "footprint "+tt.wantRef)
			}
		})
	}
}

func TestParseErrorMessage(t *testing.T) {
	err := &ParseError{Path: "board.kicad_pcb", Line: 12, Reference: "U4", Msg: "missing position (at x y)"}
	assert.Equal(t, "board.kicad_pcb:12: footprint U4: missing position (at x y)", err.Error())

	err = &ParseError{Msg: "empty input"}
	assert.Equal(t, "empty input", err.Error())
}

func TestExcludeReason(t *testing.T) {
	tests := []struct {
		name    string
		flags   Flags
		keepDNP bool
		want    string
	}{
		{name: "placeable", want: ""},
		{name: "virtual", flags: Flags{Virtual: true}, want: "virtual"},
		{name: "board only", flags: Flags{BoardOnly: true}, want: "board only"},
		{name: "excluded from pos files", flags: Flags{ExcludeFromPosFiles: true}, want: "excluded from position files"},
		{name: "excluded from bom", flags: Flags{ExcludeFromBOM: true}, want: "excluded from BOM"},
		{name: "dnp", flags: Flags{DNP: true}, want: "do not place"},
		{name: "dnp kept", flags: Flags{DNP: true}, keepDNP: true, want: ""},
		{name: "dnp kept but virtual", flags: Flags{DNP: true, Virtual: true}, keepDNP: true, want: "virtual"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fp := Footprint{Reference: "X1", Flags: tt.flags}
			assert.Equal(t, tt.want, fp.ExcludeReason(tt.keepDNP))
		})
	}
}
