package backoff

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConstant(t *testing.T) {
	s := Constant(250 * time.Millisecond)
	for i := uint(1); i < 10; i++ {
		assert.Equal(t, 250*time.Millisecond, s(i))
	}
}

func TestExponential(t *testing.T) {
	s := Exponential(time.Second, 3)

	for i, expected := range []time.Duration{time.Second, 3 * time.Second, 9 * time.Second, 27 * time.Second} {
		assert.Equal(t, expected, s(uint(i+1)))
	}

	assert.EqualValues(t, math.MaxInt64, s(100))
}

func TestBinaryExponential(t *testing.T) {
	s := BinaryExponential(500 * time.Millisecond)

	assert.Equal(t, 500*time.Millisecond, s(1))
	assert.Equal(t, time.Second, s(2))
	assert.Equal(t, 2*time.Second, s(3))
	assert.Equal(t, 4*time.Second, s(4))
	assert.EqualValues(t, math.MaxInt64, s(200))
}
