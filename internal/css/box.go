package css

import (
	"fmt"
	"strings"
)

// Box holds the four sides of a padding shorthand, in pixels.
type Box struct {
	Top, Right, Bottom, Left float64
}

// Horizontal returns left + right.
func (b Box) Horizontal() float64 { return b.Left + b.Right }

// ParseBox parses a one to four value padding shorthand in pixels.
func ParseBox(s string) (Box, error) {
	fields := strings.Fields(s)
	vals := make([]float64, 0, len(fields))
	for _, f := range fields {
		n, err := ParsePixels(f)
		if err != nil {
			return Box{}, fmt.Errorf("%w: %q", ErrInvalidLength, s)
		}
		vals = append(vals, n)
	}
	switch len(vals) {
	case 1:
		return Box{vals[0], vals[0], vals[0], vals[0]}, nil
	case 2:
		return Box{vals[0], vals[1], vals[0], vals[1]}, nil
	case 3:
		return Box{vals[0], vals[1], vals[2], vals[1]}, nil
	case 4:
		return Box{vals[0], vals[1], vals[2], vals[3]}, nil
	}
	return Box{}, fmt.Errorf("%w: %q", ErrInvalidLength, s)
}

// BorderWidth extracts the pixel width of a border shorthand such as
// "1px solid #000". "none", empty values and borders without a pixel
// width count as zero.
func BorderWidth(s string) float64 {
	for _, f := range strings.Fields(s) {
		if !strings.HasSuffix(f, "px") {
			continue
		}
		if n, err := ParsePixels(f); err == nil {
			return n
		}
	}
	return 0
}
