package rng

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFastRNG_SameSeedSameStream(t *testing.T) {
	a := NewFastRNG(42)
	b := NewFastRNG(42)
	for i := 0; i < 100; i++ {
		require.Equal(t, a.Uint64(), b.Uint64(), "draw %d", i)
	}
}

func TestFastRNG_Float64Range(t *testing.T) {
	r := NewFastRNG(7)
	for i := 0; i < 10000; i++ {
		v := r.Float64()
		require.GreaterOrEqual(t, v, 0.0)
		require.Less(t, v, 1.0)
	}
}

func TestFastRNG_NormFloat64Moments(t *testing.T) {
	r := NewFastRNG(12345)
	const n = 200000
	var sum, sumSq float64
	for i := 0; i < n; i++ {
		v := r.NormFloat64()
		require.False(t, math.IsNaN(v) || math.IsInf(v, 0))
		sum += v
		sumSq += v * v
	}
	mean := sum / n
	variance := sumSq/n - mean*mean

	assert.InDelta(t, 0.0, mean, 0.02)
	assert.InDelta(t, 1.0, variance, 0.02)
}

func TestTrialSeed(t *testing.T) {
	tests := []struct {
		name                 string
		base                 int64
		point, nTrials, trial int
		want                 int64
	}{
		{"first trial", 0, 0, 40, 0, 0},
		{"second trial", 0, 0, 40, 1, 997},
		{"second point", 0, 1, 40, 0, 40 * 997},
		{"offset base", 5, 2, 10, 3, 5 + 23*997},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TrialSeed(tt.base, tt.point, tt.nTrials, tt.trial))
		})
	}
}

func TestTrialSeed_Unique(t *testing.T) {
	seen := make(map[int64]bool)
	for p := 0; p < 20; p++ {
		for tr := 0; tr < 40; tr++ {
			s := TrialSeed(1, p, 40, tr)
			require.False(t, seen[s], "duplicate seed for point %d trial %d", p, tr)
			seen[s] = true
		}
	}
}
