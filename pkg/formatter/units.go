package formatter

import (
	"fmt"
	"strings"
)

// Unit is an output length unit. Board data is always in millimetres.
type Unit string

const (
	Millimetre Unit = "mm"
	Thou       Unit = "thou"
	Inch       Unit = "inch"
)

// ParseUnit accepts "mm", "mil", "thou" and "inch", case-insensitively.
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mm":
		return Millimetre, nil
	case "mil", "thou":
		return Thou, nil
	case "inch", "in":
		return Inch, nil
	}
	return "", fmt.Errorf("unknown unit %q (must be mm, mil, thou or inch)", s)
}

// Convert converts mm into u.
func (u Unit) Convert(mm float64) float64 {
	switch u {
	case Thou:
		return mm * 1000 / 25.4
	case Inch:
		return mm / 25.4
	}
	return mm
}
