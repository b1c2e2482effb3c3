package placement

import (
	"maps"
	"math"

	"github.com/kataras/kicad-xyrs/pkg/board"
)

// Transform maps KiCad board coordinates into the manufacturing frame.
//
// A position p becomes M·(p - Origin) where M = R(θ)·diag(1, -1): the Y axis
// is inverted first, because KiCad's Y grows downwards while placement
// machines expect a Cartesian Y-up frame, and the result is then rotated by
// θ = Origin.Rotation. KiCad already stores footprint angles
// counter-clockwise as seen from the top, which is the Y-up sense, so an
// angle a becomes a + θ with no sign change, normalized into [0, 360).
type Transform struct {
	Origin board.Point
	M      [2][2]float64
	Theta  float64
}

// NewTransform builds the transform for origin.
func NewTransform(origin Origin) Transform {
	rad := origin.Rotation * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)
	if origin.Rotation == 0 {
		cos, sin = 1, 0
	}

	// R(θ) = [cos -sin; sin cos], multiplied by diag(1, -1).
	return Transform{
		Origin: origin.Point,
		M: [2][2]float64{
			{cos, sin},
			{sin, -cos},
		},
		Theta: origin.Rotation,
	}
}

// Point maps a board position.
func (t Transform) Point(p board.Point) board.Point {
	dx, dy := p.X-t.Origin.X, p.Y-t.Origin.Y
	return board.Point{
		X: positiveZero(t.M[0][0]*dx + t.M[0][1]*dy),
		Y: positiveZero(t.M[1][0]*dx + t.M[1][1]*dy),
	}
}

// Angle maps a footprint rotation.
func (t Transform) Angle(deg float64) float64 {
	return NormalizeAngle(deg + t.Theta)
}

// Apply returns transformed copies of fps; the input is left untouched.
func (t Transform) Apply(fps []board.Footprint) []board.Footprint {
	out := make([]board.Footprint, len(fps))
	for i, fp := range fps {
		fp.Position = t.Point(fp.Position)
		fp.Rotation = t.Angle(fp.Rotation)
		fp.Attributes = maps.Clone(fp.Attributes)
		if fp.Size != nil {
			size := *fp.Size
			fp.Size = &size
		}
		out[i] = fp
	}
	return out
}

// NormalizeAngle folds deg into [0, 360).
func NormalizeAngle(deg float64) float64 {
	a := math.Mod(deg, 360)
	if a < 0 {
		a += 360
	}
	if a >= 360 {
		a -= 360
	}
	return positiveZero(a)
}

// positiveZero turns -0 into 0 so it never prints as "-0".
func positiveZero(v float64) float64 {
	if v == 0 {
		return 0
	}
	return v
}
