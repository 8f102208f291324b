package analysis

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultPalette colours clusters in id order.
var DefaultPalette = []string{"red", "blue", "green", "purple", "orange"}

// ErrPaletteOverflow is returned when more clusters are requested than the
// palette has colours under the reject policy.
var ErrPaletteOverflow = errors.New("cluster count exceeds palette size")

// ColorPolicy decides how cluster ids beyond the palette size are coloured.
type ColorPolicy string

const (
	// PolicyCycle reuses palette colours modulo the palette length.
	PolicyCycle ColorPolicy = "cycle"
	// PolicyReject refuses cluster counts larger than the palette.
	PolicyReject ColorPolicy = "reject"
)

// ParseColorPolicy accepts "cycle" or "reject", case-insensitively. An
// empty string means cycle.
func ParseColorPolicy(s string) (ColorPolicy, error) {
	switch p := ColorPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "", PolicyCycle:
		return PolicyCycle, nil
	case PolicyReject:
		return PolicyReject, nil
	default:
		return "", fmt.Errorf("unknown color policy %q", s)
	}
}

// CheckPalette reports whether k clusters can be coloured from palette under
// the policy.
func (p ColorPolicy) CheckPalette(k int, palette []string) error {
	if len(palette) == 0 {
		return errors.New("empty palette")
	}
	if p == PolicyReject && k > len(palette) {
		return fmt.Errorf("%w: %d clusters, %d colours", ErrPaletteOverflow, k, len(palette))
	}
	return nil
}

func colorFor(cluster int, palette []string) string {
	return palette[cluster%len(palette)]
}
