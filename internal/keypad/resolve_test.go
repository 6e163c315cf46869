package keypad

import (
	"math"
	"testing"

	"go-chi-keypad/internal/arithmetic"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveSkips(t *testing.T) {
	tests := []struct {
		name string
		text string
		op   Operator
	}{
		{name: "no operator", text: "5", op: None},
		{name: "blank text", text: "  ", op: Add},
		{name: "error marker", text: ErrorText, op: Add},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r, err := Resolve(3, tc.text, tc.op)
			require.NoError(t, err)
			assert.False(t, r.Applied)
		})
	}
}

func TestResolve(t *testing.T) {
	r, err := Resolve(2.5, "4", Multiply)
	require.NoError(t, err)

	assert.Equal(t, Resolution{
		Applied: true,
		Value:   10,
		Display: "10",
		Banner:  "2.5 x 4",
	}, r)
}

func TestResolveFailures(t *testing.T) {
	r, err := Resolve(8, "0", Divide)
	assert.ErrorIs(t, err, arithmetic.ErrDivisionByZero)
	assert.Equal(t, ErrorText, r.Display)
	assert.Equal(t, BlankBanner, r.Banner)

	r, err = Resolve(8, "-", Add)
	assert.ErrorIs(t, err, ErrInvalidNumber)
	assert.Equal(t, ErrorText, r.Display)

	_, err = Equals.Apply(1, 2)
	assert.Error(t, err)
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{in: 10, want: "10"},
		{in: -3, want: "-3"},
		{in: 0, want: "0"},
		{in: 0.5, want: "0.5"},
		{in: 0.1 + 0.2, want: "0.30000000000000004"},
		{in: 1234567, want: "1234567"},
		{in: 0.001, want: "0.001"},
		{in: 1e21, want: "1.0E21"},
		{in: 1.5e40, want: "1.5E40"},
		{in: -2.5e-7, want: "-2.5E-7"},
		{in: 1e-5, want: "1.0E-5"},
		{in: math.Inf(1), want: PositiveInfinity},
		{in: math.Inf(-1), want: NegativeInfinity},
		{in: math.NaN(), want: NotANumber},
	}

	for _, tc := range tests {
		got := FormatNumber(tc.in)
		assert.Equal(t, tc.want, got)

		// Whatever the display shows must read back as the same value.
		v, err := ParseNumber(got)
		require.NoError(t, err, "text %q", got)
		if math.IsNaN(tc.in) {
			assert.True(t, math.IsNaN(v))
		} else {
			assert.Equal(t, tc.in, v)
		}
	}
}

func TestTrimNumber(t *testing.T) {
	assert.Equal(t, "12", TrimNumber("12.0"))
	assert.Equal(t, "-3", TrimNumber("-3.0"))
	assert.Equal(t, "0", TrimNumber("0.0"))
	assert.Equal(t, "1.05", TrimNumber("1.05"))
	assert.Equal(t, "1.00", TrimNumber("1.00"))
	assert.Equal(t, ".0", TrimNumber(".0"))
}

func TestParseNumber(t *testing.T) {
	v, err := ParseNumber(" 5. ")
	require.NoError(t, err)
	assert.Equal(t, 5.0, v)

	v, err = ParseNumber("-.25")
	require.NoError(t, err)
	assert.Equal(t, -0.25, v)

	v, err = ParseNumber("-1.0E400")
	require.NoError(t, err)
	assert.True(t, math.IsInf(v, -1))

	for _, text := range []string{Placeholder, ErrorText, ".", "-", "", "-+Inf", "1e+40."} {
		_, err := ParseNumber(text)
		assert.ErrorIs(t, err, ErrInvalidNumber, "text %q", text)
	}
}
