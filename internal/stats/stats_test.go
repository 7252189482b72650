package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOnlineStats(t *testing.T) {
	var s OnlineStats
	for _, v := range []float64{2, 4, 4, 4, 5, 5, 7, 9} {
		s.Add(v)
	}

	assert.Equal(t, 8, s.Count())
	assert.InDelta(t, 5.0, s.Mean(), 1e-12)
	assert.InDelta(t, 4.0, s.PopVariance(), 1e-12)
	assert.InDelta(t, 2.0, s.PopStdDev(), 1e-12)
	assert.InDelta(t, 32.0/7.0, s.Variance(), 1e-12)
	assert.InDelta(t, math.Sqrt(32.0/7.0)/math.Sqrt(8), s.StdErr(), 1e-12)
}

func TestOnlineStats_Degenerate(t *testing.T) {
	var empty OnlineStats
	assert.Equal(t, 0.0, empty.Mean())
	assert.Equal(t, 0.0, empty.PopVariance())
	assert.Equal(t, 0.0, empty.Variance())
	assert.True(t, math.IsInf(empty.StdErr(), 1))

	var one OnlineStats
	one.Add(0.3)
	assert.Equal(t, 0.3, one.Mean())
	assert.Equal(t, 0.0, one.PopStdDev())
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		wantMean float64
		wantStd  float64
	}{
		{"constant", []float64{0.8, 0.8, 0.8}, 0.8, 0},
		{"two points", []float64{0, 1}, 0.5, 0.5},
		{"empty", nil, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Summarize(tt.values)
			assert.InDelta(t, tt.wantMean, got.Mean, 1e-12)
			assert.InDelta(t, tt.wantStd, got.StdDev, 1e-12)
			assert.Equal(t, len(tt.values), got.N)
		})
	}
}

func TestMean(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
	assert.InDelta(t, 0.25, Mean([]float64{0, 0.5, 0.25, 0.25}), 1e-12)
}

func TestLinspace(t *testing.T) {
	assert.Nil(t, Linspace(0, 1, 0))
	assert.Equal(t, []float64{0.5}, Linspace(0.5, 2, 1))
	assert.Equal(t, []float64{0, 0.25, 0.5, 0.75, 1}, Linspace(0, 1, 5))

	xs := Linspace(-0.005, 0.08, 200)
	assert.Len(t, xs, 200)
	assert.Equal(t, -0.005, xs[0])
	assert.Equal(t, 0.08, xs[199])
	for i := 1; i < len(xs); i++ {
		assert.Greater(t, xs[i], xs[i-1])
	}
}
