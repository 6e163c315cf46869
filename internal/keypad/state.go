// Package keypad implements the calculator's input state machine: it turns
// a sequence of button presses into display text, a banner caption and at
// most one pending binary operation.
package keypad

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"go-chi-keypad/internal/arithmetic"
)

const (
	// Placeholder is shown before any input and after CLEAR.
	Placeholder = "_"
	// ErrorText replaces the display when a parse or division fails.
	ErrorText = "Error"
	// BlankBanner is the banner when no expression is being built.
	BlankBanner = " "

	negation = "-"
	exponent = "E"
)

// State is everything a keypad remembers between presses.
type State struct {
	Display string
	Banner  string
	Pending Operator
	Result  float64
	Append  bool
}

// Snapshot is a copy of State handed to renderers.
type Snapshot struct {
	Display string
	Banner  string
	Pending Operator
	Result  float64
	Append  bool
}

func New() *State {
	s := &State{}
	s.reset()
	return s
}

func (s *State) reset() {
	s.Display = Placeholder
	s.Banner = BlankBanner
	s.Pending = None
	s.Result = 0
	s.Append = false
}

func (s *State) Snapshot() Snapshot {
	return Snapshot(*s)
}

// Press applies one key. The returned error is the failure that put the
// error marker on the display, if any; the state is always left consistent
// and callers never need to undo anything.
func (s *State) Press(k Key) error {
	switch k := k.(type) {
	case Operand:
		s.pressOperand(k)
		return nil
	case Operator:
		return s.pressOperator(k)
	}
	return fmt.Errorf("%w: %v", ErrUnknownKey, k)
}

func (s *State) pressOperand(k Operand) {
	if s.Display == ErrorText {
		return
	}

	switch k {
	case ToggleSign:
		switch s.Display {
		case Placeholder, "0", Decimal.Symbol(), NotANumber:
			return
		}
		if strings.HasPrefix(s.Display, negation) {
			s.Display = strings.TrimPrefix(s.Display, negation)
			if s.Display == "" {
				s.Display = Placeholder
				s.Append = false
				return
			}
		} else {
			s.Display = negation + s.Display
		}
		// Digits typed after an infinity start a new number.
		s.Append = !nonFinite(s.Display)

	case Decimal:
		point := Decimal.Symbol()
		hasPoint := strings.Contains(s.Display, point)
		switch {
		case s.Display == Placeholder || nonFinite(s.Display) || (hasPoint && s.Pending != None):
			s.Display = point
			s.Append = true
		case !hasPoint:
			s.Display += point
			s.Append = true
		}

	default:
		if s.Append {
			s.Display += k.Symbol()
		} else {
			s.Display = k.Symbol()
			s.Append = true
		}
	}
}

func (s *State) pressOperator(k Operator) error {
	if k <= None || k > Equals {
		return fmt.Errorf("%w: %v", ErrUnknownKey, k)
	}
	s.Append = false

	switch k {
	case Clear:
		s.reset()

	case Delete:
		if s.Display == ErrorText || nonFinite(s.Display) || utf8.RuneCountInString(s.Display) <= 1 {
			s.Display = Placeholder
			return nil
		}
		_, size := utf8.DecodeLastRuneInString(s.Display)
		s.Display = s.Display[:len(s.Display)-size]
		// "1.0E-5" loses its whole exponent, not just the digit.
		s.Display = strings.TrimSuffix(s.Display, exponent+negation)
		s.Display = strings.TrimSuffix(s.Display, exponent)

	case Percentage:
		v, err := ParseNumber(s.Display)
		if err == nil {
			v, err = arithmetic.Divide(v, 100)
		}
		if err != nil {
			s.Display = ErrorText
			return err
		}
		s.Display = FormatNumber(v)

	case Equals:
		err := s.resolve()
		s.Pending = None
		return err

	case Add, Subtract, Multiply, Divide:
		if s.Pending == None {
			v, err := ParseNumber(s.Display)
			if err != nil {
				s.Display = ErrorText
				return err
			}
			s.Result = v
			s.Pending = k
			s.Banner = FormatNumber(v) + " " + k.Symbol()
			return nil
		}
		err := s.resolve()
		s.Pending = k
		return err
	}
	return nil
}

func (s *State) resolve() error {
	r, err := Resolve(s.Result, s.Display, s.Pending)
	if !r.Applied {
		return err
	}
	if err == nil {
		s.Result = r.Value
	}
	s.Display = r.Display
	s.Banner = r.Banner
	return err
}

// ErrorKind classifies the error returned by Press for metrics and logs.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, arithmetic.ErrDivisionByZero):
		return "division_by_zero"
	case errors.Is(err, ErrInvalidNumber):
		return "parse"
	}
	return "unknown"
}
