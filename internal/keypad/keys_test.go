package keypad

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKey(t *testing.T) {
	tests := []struct {
		symbol string
		want   Key
	}{
		{symbol: "0", want: Zero},
		{symbol: "7", want: Seven},
		{symbol: ".", want: Decimal},
		{symbol: "+/-", want: ToggleSign},
		{symbol: "+-", want: ToggleSign},
		{symbol: "C", want: Clear},
		{symbol: "D", want: Delete},
		{symbol: "%", want: Percentage},
		{symbol: "÷", want: Divide},
		{symbol: "/", want: Divide},
		{symbol: "x", want: Multiply},
		{symbol: "*", want: Multiply},
		{symbol: "-", want: Subtract},
		{symbol: "+", want: Add},
		{symbol: " = ", want: Equals},
	}

	for _, tc := range tests {
		t.Run(tc.symbol, func(t *testing.T) {
			got, err := ParseKey(tc.symbol)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseKeyUnknown(t *testing.T) {
	for _, symbol := range []string{"", "^", "10", "AC"} {
		_, err := ParseKey(symbol)
		assert.ErrorIs(t, err, ErrUnknownKey, "symbol %q", symbol)
	}
}

func TestParseKeysStopsAtFirstUnknown(t *testing.T) {
	keys, err := ParseKeys([]string{"1", "+", "1"})
	require.NoError(t, err)
	assert.Equal(t, []Key{One, Add, One}, keys)

	_, err = ParseKeys([]string{"1", "?", "1"})
	assert.ErrorIs(t, err, ErrUnknownKey)
	assert.Contains(t, err.Error(), "key 1")
}

func TestSymbolsRoundTrip(t *testing.T) {
	for o := Seven; o <= ToggleSign; o++ {
		got, err := ParseKey(o.Symbol())
		require.NoError(t, err)
		assert.Equal(t, o, got)
	}
	for o := Clear; o <= Equals; o++ {
		got, err := ParseKey(o.Symbol())
		require.NoError(t, err)
		assert.Equal(t, o, got)
	}
}

func TestOperatorProperties(t *testing.T) {
	assert.True(t, Add.IsArithmetic())
	assert.True(t, Divide.IsArithmetic())
	assert.False(t, Equals.IsArithmetic())
	assert.False(t, None.IsArithmetic())

	assert.Equal(t, "multiply", Multiply.Name())
	assert.Equal(t, "unknown", Operator(99).Name())
	assert.Equal(t, "Operand(42)", Operand(42).Symbol())

	op, ok := OperatorByName("subtract")
	assert.True(t, ok)
	assert.Equal(t, Subtract, op)
	_, ok = OperatorByName("equals")
	assert.False(t, ok)

	assert.True(t, Zero.IsDigit())
	assert.False(t, Decimal.IsDigit())

	assert.Equal(t, "operand", Category(Five))
	assert.Equal(t, "operator", Category(Equals))
	assert.Equal(t, "unknown", Category(nil))
}

func TestLayout(t *testing.T) {
	want := [][]string{
		{"C", "D", "%", "÷"},
		{"7", "8", "9", "x"},
		{"4", "5", "6", "-"},
		{"1", "2", "3", "+"},
		{"0", ".", "+/-", "="},
	}

	grid := Layout()
	require.Len(t, grid, len(want))
	for row := range want {
		require.Len(t, grid[row], len(want[row]))
		for col := range want[row] {
			assert.Equal(t, want[row][col], grid[row][col].Symbol(), "row %d col %d", row, col)
		}
	}
}
