// Package rng provides a small per-trial random source.
//
// Every trial owns its own FastRNG seeded from the trial's position in the
// sweep, so concurrent trials never share generator state and a sweep is
// reproducible for a given base seed regardless of how many workers run it.
package rng

import "math"

// seedStride spaces the seeds of neighbouring trials apart.
const seedStride = 997

// FastRNG is a per-goroutine splitmix64 generator. It is not safe for
// concurrent use; give each goroutine its own.
type FastRNG struct {
	state uint64

	// spare holds the second value of the last Box-Muller pair.
	spare    float64
	hasSpare bool
}

func NewFastRNG(seed int64) *FastRNG {
	return &FastRNG{state: uint64(seed)}
}

// TrialSeed derives the seed of one (point, trial) unit of work.
func TrialSeed(base int64, point, nTrials, trial int) int64 {
	return base + int64((point*nTrials+trial)*seedStride)
}

func (r *FastRNG) Uint64() uint64 {
	r.state += 0x9e3779b97f4a7c15
	z := r.state
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

// Float64 returns a uniform sample in [0, 1).
func (r *FastRNG) Float64() float64 {
	return float64(r.Uint64()>>11) / (1 << 53)
}

// NormFloat64 returns a standard normal sample using the Box-Muller transform.
func (r *FastRNG) NormFloat64() float64 {
	if r.hasSpare {
		r.hasSpare = false
		return r.spare
	}
	// 1-u keeps the log argument in (0, 1].
	u1 := 1 - r.Float64()
	u2 := r.Float64()
	mag := math.Sqrt(-2 * math.Log(u1))
	r.spare = mag * math.Sin(2*math.Pi*u2)
	r.hasSpare = true
	return mag * math.Cos(2*math.Pi*u2)
}
