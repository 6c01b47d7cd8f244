package sync

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRing_Consistency(t *testing.T) {
	r1 := newRing(64, hashEntriesPerLock)
	r2 := newRing(64, hashEntriesPerLock)

	for i := 0; i < 256; i++ {
		key := []byte(fmt.Sprintf("account%d", i))

		stripe := r1.stripe(key)
		assert.True(t, stripe >= 0 && stripe < 64)
		assert.Equal(t, stripe, r1.stripe(key))
		assert.Equal(t, stripe, r2.stripe(key))
	}
}

func TestRing_Distribution(t *testing.T) {
	stripes := 5
	iterations := 500_000
	marginOfError := 0.1
	expected := float64(iterations / stripes)

	// A stripe's share of the circle deviates by about 1/sqrt(virtualNodes).
	r := newRing(stripes, 2000)

	hits := make(map[int]int)
	for i := 0; i < iterations; i++ {
		hits[r.stripe([]byte(fmt.Sprintf("account%d", i)))]++
	}

	assert.Len(t, hits, stripes)
	for stripe, count := range hits {
		assert.True(t, math.Abs(float64(count)-expected) <= marginOfError*expected, "stripe %d: %d hits", stripe, count)
	}
}

func TestRing_SingleStripe(t *testing.T) {
	r := newRing(1, 1)
	for i := 0; i < 100; i++ {
		assert.Equal(t, 0, r.stripe([]byte(fmt.Sprintf("account%d", i))))
	}
}
