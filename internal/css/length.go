// Package css parses and formats the small subset of CSS values that
// component attributes carry: lengths, padding shorthands and borders.
package css

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidLength is returned when a value is not a usable CSS length.
var ErrInvalidLength = errors.New("invalid length")

// Unit is the unit of a Length.
type Unit uint8

// Units.
const (
	UnitPx Unit = iota
	UnitPercent
)

// Length is a parsed CSS length. Unitless numbers are pixels.
type Length struct {
	Value float64
	Unit  Unit
}

// IsPercent reports whether the length is a percentage.
func (l Length) IsPercent() bool { return l.Unit == UnitPercent }

// String formats the length back to CSS.
func (l Length) String() string {
	if l.Unit == UnitPercent {
		return FormatNumber(l.Value) + "%"
	}
	return FormatNumber(l.Value) + "px"
}

// ParseLength parses "10px", "50%", "10" or "0".
func ParseLength(s string) (Length, error) {
	v := strings.TrimSpace(s)
	unit := UnitPx
	switch {
	case strings.HasSuffix(v, "px"):
		v = strings.TrimSuffix(v, "px")
	case strings.HasSuffix(v, "%"):
		v = strings.TrimSuffix(v, "%")
		unit = UnitPercent
	}
	n, err := parseNumber(v)
	if err != nil {
		return Length{}, fmt.Errorf("%w: %q", ErrInvalidLength, s)
	}
	return Length{Value: n, Unit: unit}, nil
}

// ParsePixels parses a length that must be expressed in pixels.
func ParsePixels(s string) (float64, error) {
	l, err := ParseLength(s)
	if err != nil {
		return 0, err
	}
	if l.Unit != UnitPx {
		return 0, fmt.Errorf("%w: %q is not a pixel value", ErrInvalidLength, s)
	}
	return l.Value, nil
}

func parseNumber(s string) (float64, error) {
	if s == "" {
		return 0, ErrInvalidLength
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if n < 0 || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, ErrInvalidLength
	}
	return n, nil
}

// FormatNumber prints a number with at most two decimals and no trailing zeros.
func FormatNumber(n float64) string {
	return strconv.FormatFloat(roundHundredths(n), 'f', -1, 64)
}

func roundHundredths(n float64) float64 {
	if n < 0 {
		return -float64(int64(-n*100+0.5)) / 100
	}
	return float64(int64(n*100+0.5)) / 100
}

// Px formats a pixel count, e.g. Px(600) == "600px".
func Px(n float64) string {
	return FormatNumber(n) + "px"
}
