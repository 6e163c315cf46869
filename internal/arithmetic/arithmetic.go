// Package arithmetic holds the binary operations behind every calculator
// surface: the keypad state machine and the REST endpoints.
package arithmetic

import "errors"

// ErrDivisionByZero is returned by Divide when the divisor is exactly zero.
var ErrDivisionByZero = errors.New("division by zero")

// Func is the common shape of a binary operation.
type Func func(a, b float64) (float64, error)

func Add(a, b float64) float64 {
	return a + b
}

func Subtract(a, b float64) float64 {
	return a - b
}

func Multiply(a, b float64) float64 {
	return a * b
}

// Divide returns a / b, or ErrDivisionByZero when b is zero.
func Divide(a, b float64) (float64, error) {
	if b == 0 {
		return 0, ErrDivisionByZero
	}
	return a / b, nil
}

func infallible(f func(a, b float64) float64) Func {
	return func(a, b float64) (float64, error) {
		return f(a, b), nil
	}
}

var byName = map[string]Func{
	"add":      infallible(Add),
	"subtract": infallible(Subtract),
	"multiply": infallible(Multiply),
	"divide":   Divide,
}

// Lookup returns the operation registered under name
// ("add", "subtract", "multiply" or "divide").
func Lookup(name string) (Func, bool) {
	f, ok := byName[name]
	return f, ok
}
