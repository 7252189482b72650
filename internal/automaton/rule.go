// Package automaton implements the Gaussian continuous-valued cellular
// automaton.
//
// Every cell holds a value in [0, 1]. On each step a cell moves by
//
//	delta = Gain*exp(-(s-Target)^2) - x
//
// where s is the sum of its in-bounds Moore neighbours (itself excluded) and x
// is the threshold parameter, and the result is clamped back into [0, 1].
// Neighbourhoods are truncated at the edges: corner cells see 3 neighbours,
// edge cells 5 and interior cells 8. There is no wraparound and no padding.
package automaton

import "math"

const (
	// Gain is the peak growth a cell receives when its neighbourhood sum is
	// exactly Target.
	Gain = 0.1
	// Target is the neighbourhood sum the rule rewards.
	Target = 3.0
)

// Delta is the per-step change for a cell with neighbourhood sum s under
// threshold x, before clamping.
func Delta(s, x float64) float64 {
	d := s - Target
	return Gain*math.Exp(-d*d) - x
}

// Neighborhood returns the sum of the in-bounds neighbours of (i, j),
// excluding the cell itself, and how many neighbours were counted.
func Neighborhood(g *Grid, i, j int) (sum float64, count int) {
	return neighborhood(g.cells, g.size, i, j)
}

func neighborhood(cells []float64, n, i, j int) (float64, int) {
	rLo, rHi := max(i-1, 0), min(i+1, n-1)
	cLo, cHi := max(j-1, 0), min(j+1, n-1)

	sum := 0.0
	count := 0
	for r := rLo; r <= rHi; r++ {
		row := cells[r*n : (r+1)*n]
		for c := cLo; c <= cHi; c++ {
			if r == i && c == j {
				continue
			}
			sum += row[c]
			count++
		}
	}
	return sum, count
}

// clamp maps v into [0, 1]. NaN lands on 0.
func clamp(v float64) float64 {
	if !(v >= 0) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// stepRows writes rows [lo, hi) of the next generation into dst, reading only
// from src.
func stepRows(dst, src []float64, n int, x float64, lo, hi int) {
	for i := lo; i < hi; i++ {
		for j := 0; j < n; j++ {
			s, _ := neighborhood(src, n, i, j)
			idx := i*n + j
			dst[idx] = clamp(src[idx] + Delta(s, x))
		}
	}
}

var sequential = NewEngine()

// Step advances g by one generation under threshold x and returns a new grid.
// g is not modified.
func Step(g *Grid, x float64) *Grid {
	return sequential.Step(g, x)
}

// Run applies Step exactly steps times and returns the final grid.
func Run(g *Grid, x float64, steps int) *Grid {
	return sequential.Run(g, x, steps)
}
