package keypad

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidNumber is returned when display text has to be read as a number
// and is not one.
var ErrInvalidNumber = errors.New("invalid number")

// Display texts for values a float64 can hold but a decimal literal cannot.
const (
	PositiveInfinity = "Infinity"
	NegativeInfinity = "-Infinity"
	NotANumber       = "NaN"
)

var wholeWithZeroFraction = regexp.MustCompile(`^-?\d+\.0$`)

// ParseNumber reads display text as a float64. Surrounding whitespace is
// ignored. Literals too large for a float64 read as an infinity.
func ParseNumber(text string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, fmt.Errorf("parse %q: %w", text, ErrInvalidNumber)
	}
	return v, nil
}

// TrimNumber drops the ".0" from texts like "12.0" or "-3.0".
func TrimNumber(text string) string {
	if wholeWithZeroFraction.MatchString(text) {
		return text[:len(text)-2]
	}
	return text
}

// FormatNumber renders v the way the display shows it: shortest decimal
// form inside [1e-3, 1e21), never a trailing ".0". Outside that range the
// mantissa always carries a point ("1.0E40", "-2.5E-7"), and infinities and
// NaN are spelled out. Every result reads back through ParseNumber.
func FormatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return NotANumber
	case math.IsInf(v, 1):
		return PositiveInfinity
	case math.IsInf(v, -1):
		return NegativeInfinity
	}

	abs := math.Abs(v)
	if v == 0 || (abs >= 1e-3 && abs < 1e21) {
		return TrimNumber(strconv.FormatFloat(v, 'f', -1, 64))
	}
	return scientific(v)
}

func scientific(v float64) string {
	mantissa, exp, _ := strings.Cut(strconv.FormatFloat(v, 'e', -1, 64), "e")
	if !strings.Contains(mantissa, ".") {
		mantissa += ".0"
	}
	n, _ := strconv.Atoi(exp)
	return mantissa + "E" + strconv.Itoa(n)
}

// nonFinite reports whether text reads as an infinity or NaN.
func nonFinite(text string) bool {
	v, err := ParseNumber(text)
	return err == nil && (math.IsInf(v, 0) || math.IsNaN(v))
}
