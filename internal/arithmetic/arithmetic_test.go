package arithmetic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBinaryOperations(t *testing.T) {
	assert.Equal(t, 5.0, Add(2, 3))
	assert.Equal(t, -1.0, Subtract(2, 3))
	assert.Equal(t, 6.0, Multiply(2, 3))

	got, err := Divide(7, 2)
	require.NoError(t, err)
	assert.Equal(t, 3.5, got)
}

func TestDivideByZero(t *testing.T) {
	_, err := Divide(8, 0)
	assert.ErrorIs(t, err, ErrDivisionByZero)
}

func TestLookup(t *testing.T) {
	tests := []struct {
		name string
		a, b float64
		want float64
	}{
		{name: "add", a: 6, b: 4, want: 10},
		{name: "subtract", a: 6, b: 4, want: 2},
		{name: "multiply", a: 6, b: 4, want: 24},
		{name: "divide", a: 6, b: 4, want: 1.5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f, ok := Lookup(tc.name)
			require.True(t, ok)

			got, err := f(tc.a, tc.b)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	t.Run("unknown", func(t *testing.T) {
		_, ok := Lookup("modulo")
		assert.False(t, ok)
	})

	t.Run("divide by zero", func(t *testing.T) {
		f, _ := Lookup("divide")
		_, err := f(1, 0)
		assert.ErrorIs(t, err, ErrDivisionByZero)
	})
}
