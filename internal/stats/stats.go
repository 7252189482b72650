// Package stats holds the numeric helpers shared by the automaton and the
// sweep driver.
package stats

import "math"

// OnlineStats tracks running mean and variance
type OnlineStats struct {
	n    int
	mean float64
	m2   float64 // Sum of squared differences from mean
}

func (s *OnlineStats) Add(x float64) {
	s.n++
	delta := x - s.mean
	s.mean += delta / float64(s.n)
	delta2 := x - s.mean
	s.m2 += delta * delta2
}

func (s *OnlineStats) Count() int {
	return s.n
}

func (s *OnlineStats) Mean() float64 {
	return s.mean
}

// Variance is the sample (n-1) variance.
func (s *OnlineStats) Variance() float64 {
	if s.n < 2 {
		return 0
	}
	return s.m2 / float64(s.n-1)
}

func (s *OnlineStats) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// PopVariance is the population (n) variance.
func (s *OnlineStats) PopVariance() float64 {
	if s.n < 1 {
		return 0
	}
	return s.m2 / float64(s.n)
}

func (s *OnlineStats) PopStdDev() float64 {
	return math.Sqrt(s.PopVariance())
}

func (s *OnlineStats) StdErr() float64 {
	if s.n < 2 {
		return math.Inf(1)
	}
	return s.StdDev() / math.Sqrt(float64(s.n))
}

// Summary is the reduction of a set of trial summaries.
type Summary struct {
	Mean   float64
	StdDev float64 // population standard deviation
	N      int
}

// Summarize reduces values in slice order, so the result only depends on the
// values and their positions and never on the order they were produced in.
func Summarize(values []float64) Summary {
	var s OnlineStats
	for _, v := range values {
		s.Add(v)
	}
	return Summary{Mean: s.Mean(), StdDev: s.PopStdDev(), N: s.Count()}
}

// Mean returns the arithmetic mean of values, or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Linspace returns count evenly spaced values over the closed interval
// [start, stop]. A count of 1 yields just start.
func Linspace(start, stop float64, count int) []float64 {
	if count <= 0 {
		return nil
	}
	values := make([]float64, count)
	if count == 1 {
		values[0] = start
		return values
	}
	step := (stop - start) / float64(count-1)
	for i := range values {
		values[i] = start + float64(i)*step
	}
	values[count-1] = stop
	return values
}
