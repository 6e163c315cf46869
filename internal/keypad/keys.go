package keypad

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownKey is returned by ParseKey for symbols that are not on the keypad.
var ErrUnknownKey = errors.New("unknown key")

// Key is a single button press. It is either an Operand or an Operator;
// the set is closed.
type Key interface {
	Symbol() string
	isKey()
}

// Operand keys edit the display text without evaluating anything.
type Operand int

const (
	Seven Operand = iota
	Eight
	Nine
	Four
	Five
	Six
	One
	Two
	Three
	Zero
	Decimal
	ToggleSign
)

var operandSymbols = [...]string{
	Seven:      "7",
	Eight:      "8",
	Nine:       "9",
	Four:       "4",
	Five:       "5",
	Six:        "6",
	One:        "1",
	Two:        "2",
	Three:      "3",
	Zero:       "0",
	Decimal:    ".",
	ToggleSign: "+/-",
}

func (o Operand) Symbol() string {
	if o < 0 || int(o) >= len(operandSymbols) {
		return fmt.Sprintf("Operand(%d)", int(o))
	}
	return operandSymbols[o]
}

func (o Operand) String() string { return o.Symbol() }

// IsDigit reports whether o is one of 0-9.
func (o Operand) IsDigit() bool {
	return o >= Seven && o <= Zero
}

func (Operand) isKey() {}

// Operator keys act on the whole state. The zero value None is not a key;
// it marks the absence of a pending operation.
type Operator int

const (
	None Operator = iota
	Clear
	Delete
	Percentage
	Divide
	Multiply
	Subtract
	Add
	Equals
)

var operatorSymbols = [...]string{
	None:       "",
	Clear:      "C",
	Delete:     "D",
	Percentage: "%",
	Divide:     "÷",
	Multiply:   "x",
	Subtract:   "-",
	Add:        "+",
	Equals:     "=",
}

var operatorNames = [...]string{
	None:       "none",
	Clear:      "clear",
	Delete:     "delete",
	Percentage: "percentage",
	Divide:     "divide",
	Multiply:   "multiply",
	Subtract:   "subtract",
	Add:        "add",
	Equals:     "equals",
}

func (o Operator) Symbol() string {
	if o < 0 || int(o) >= len(operatorSymbols) {
		return fmt.Sprintf("Operator(%d)", int(o))
	}
	return operatorSymbols[o]
}

// Name is the lower-case identifier used in logs, metrics and the REST API.
func (o Operator) Name() string {
	if o < 0 || int(o) >= len(operatorNames) {
		return "unknown"
	}
	return operatorNames[o]
}

func (o Operator) String() string { return o.Name() }

// OperatorByName is the inverse of Name for the arithmetic operators.
func OperatorByName(name string) (Operator, bool) {
	for o := Divide; o <= Add; o++ {
		if operatorNames[o] == name {
			return o, true
		}
	}
	return None, false
}

// IsArithmetic reports whether o can be pending: add, subtract, multiply or divide.
func (o Operator) IsArithmetic() bool {
	switch o {
	case Add, Subtract, Multiply, Divide:
		return true
	}
	return false
}

func (Operator) isKey() {}

var keysBySymbol = func() map[string]Key {
	m := make(map[string]Key, len(operandSymbols)+len(operatorSymbols)+3)
	for i := range operandSymbols {
		m[operandSymbols[i]] = Operand(i)
	}
	for i := Clear; i <= Equals; i++ {
		m[operatorSymbols[i]] = i
	}
	// ASCII spellings for clients that cannot type the keypad glyphs.
	m["/"] = Divide
	m["*"] = Multiply
	m["X"] = Multiply
	m["+-"] = ToggleSign
	return m
}()

// ParseKey maps a button symbol to its key.
func ParseKey(symbol string) (Key, error) {
	k, ok := keysBySymbol[strings.TrimSpace(symbol)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKey, symbol)
	}
	return k, nil
}

// ParseKeys parses every symbol, stopping at the first unknown one.
func ParseKeys(symbols []string) ([]Key, error) {
	keys := make([]Key, 0, len(symbols))
	for i, s := range symbols {
		k, err := ParseKey(s)
		if err != nil {
			return nil, fmt.Errorf("key %d: %w", i, err)
		}
		keys = append(keys, k)
	}
	return keys, nil
}

// Category is "operand" or "operator".
func Category(k Key) string {
	switch k.(type) {
	case Operand:
		return "operand"
	case Operator:
		return "operator"
	}
	return "unknown"
}
