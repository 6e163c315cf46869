package keypad

import (
	"fmt"
	"strings"

	"go-chi-keypad/internal/arithmetic"
)

// Resolution is the outcome of Resolve. Applied is false when there was
// nothing to evaluate; the other fields are then zero.
type Resolution struct {
	Applied bool
	Value   float64
	Display string
	Banner  string
}

// Apply evaluates a op b. Only arithmetic operators can be applied.
func (o Operator) Apply(a, b float64) (float64, error) {
	switch o {
	case Add:
		return arithmetic.Add(a, b), nil
	case Subtract:
		return arithmetic.Subtract(a, b), nil
	case Multiply:
		return arithmetic.Multiply(a, b), nil
	case Divide:
		return arithmetic.Divide(a, b)
	}
	return 0, fmt.Errorf("operator %s cannot be applied", o.Name())
}

// Resolve evaluates "previous op text". It does nothing when op is None,
// text is blank or text is the error marker. On failure the Resolution
// carries the error marker and a blank banner alongside the error.
func Resolve(previous float64, text string, op Operator) (Resolution, error) {
	if op == None || strings.TrimSpace(text) == "" || text == ErrorText {
		return Resolution{}, nil
	}

	current, err := ParseNumber(text)
	if err != nil {
		return failed(), err
	}

	value, err := op.Apply(previous, current)
	if err != nil {
		return failed(), err
	}

	return Resolution{
		Applied: true,
		Value:   value,
		Display: FormatNumber(value),
		Banner:  FormatNumber(previous) + " " + op.Symbol() + " " + FormatNumber(current),
	}, nil
}

func failed() Resolution {
	return Resolution{Applied: true, Display: ErrorText, Banner: BlankBanner}
}
