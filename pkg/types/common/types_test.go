package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewID_Valid(t *testing.T) {
	id := NewID()
	assert.NoError(t, id.Validate())
}

func TestID_Validate_Empty(t *testing.T) {
	assert.Error(t, ID("").Validate())
}

func TestID_Validate_Malformed(t *testing.T) {
	assert.Error(t, ID("not-a-uuid").Validate())
}

func TestIsPositive(t *testing.T) {
	assert.False(t, IsPositive(nil))
	assert.False(t, IsPositive(Float64(0)))
	assert.False(t, IsPositive(Float64(-10)))
	assert.True(t, IsPositive(Float64(0.01)))
}

func TestValue_NilIsZero(t *testing.T) {
	assert.Equal(t, 0.0, Value(nil))
	assert.Equal(t, 42.5, Value(Float64(42.5)))
}

func TestRoundCurrency(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{217500.4, 217500},
		{217500.5, 217501},
		{-50000.5, -50001},
		{0, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RoundCurrency(tt.in), "in: %v", tt.in)
	}
}

func TestRoundCurrencyPtr_PreservesNil(t *testing.T) {
	assert.Nil(t, RoundCurrencyPtr(nil))
	assert.Equal(t, 100.0, *RoundCurrencyPtr(Float64(99.7)))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, Clamp(-5, 0, 100))
	assert.Equal(t, 100.0, Clamp(250, 0, 100))
	assert.Equal(t, 55.0, Clamp(55, 0, 100))
}
