package automaton

import (
	"errors"
	"fmt"
	"math"

	"gaussian-ca-simulation/internal/rng"
)

// Initializer builds the starting grid of a trial.
type Initializer interface {
	// Name identifies the policy ("uniform", "noisy", "pattern").
	Name() string
	// Validate reports whether the policy can build a grid of the given size.
	Validate(size int) error
	// Init builds a fresh grid. Deterministic policies ignore r.
	Init(size int, r *rng.FastRNG) *Grid
}

// DefaultTemplate is the 3x3 seed used when a pattern policy names none.
var DefaultTemplate = [][]float64{
	{1, 1, 0},
	{1, 1, 0},
	{0, 1, 0},
}

// Uniform sets every cell to Value.
type Uniform struct {
	Value float64
}

func (u Uniform) Name() string { return "uniform" }

func (u Uniform) Validate(int) error {
	if !inUnit(u.Value) {
		return fmt.Errorf("uniform value must be within [0, 1], got %v", u.Value)
	}
	return nil
}

func (u Uniform) Init(size int, _ *rng.FastRNG) *Grid {
	return Filled(size, u.Value)
}

// Noisy sets every cell to Base + Sigma*N(0,1), drawn independently per cell
// in row-major order, then clamped to [0, 1].
type Noisy struct {
	Base  float64
	Sigma float64
}

func (p Noisy) Name() string { return "noisy" }

func (p Noisy) Validate(int) error {
	if math.IsNaN(p.Base) || math.IsInf(p.Base, 0) {
		return fmt.Errorf("noisy base must be finite, got %v", p.Base)
	}
	if !(p.Sigma >= 0) || math.IsInf(p.Sigma, 0) {
		return fmt.Errorf("noisy sigma must be finite and non-negative, got %v", p.Sigma)
	}
	return nil
}

func (p Noisy) Init(size int, r *rng.FastRNG) *Grid {
	g := NewGrid(size)
	for i := range g.cells {
		g.cells[i] = clamp(p.Base + p.Sigma*r.NormFloat64())
	}
	return g
}

// Pattern zero-fills the grid and stamps Template, scaled by High, centred on
// the grid.
type Pattern struct {
	Template [][]float64
	High     float64
}

func (p Pattern) Name() string { return "pattern" }

func (p Pattern) Validate(size int) error {
	if len(p.Template) == 0 || len(p.Template[0]) == 0 {
		return errors.New("pattern template is empty")
	}
	width := len(p.Template[0])
	for i, row := range p.Template {
		if len(row) != width {
			return fmt.Errorf("pattern template row %d has %d values, want %d", i, len(row), width)
		}
		for j, v := range row {
			if v != 0 && v != 1 {
				return fmt.Errorf("pattern template[%d][%d] must be 0 or 1, got %v", i, j, v)
			}
		}
	}
	if len(p.Template) > size || width > size {
		return fmt.Errorf("pattern template %dx%d does not fit a %dx%d grid", len(p.Template), width, size, size)
	}
	if !inUnit(p.High) {
		return fmt.Errorf("pattern value_high must be within [0, 1], got %v", p.High)
	}
	return nil
}

func (p Pattern) Init(size int, _ *rng.FastRNG) *Grid {
	g := NewGrid(size)
	rows, cols := len(p.Template), len(p.Template[0])
	center := size / 2
	r0, c0 := center-rows/2, center-cols/2
	for i, row := range p.Template {
		for j, v := range row {
			g.cells[(r0+i)*size+c0+j] = v * p.High
		}
	}
	return g
}

func inUnit(v float64) bool {
	return v >= 0 && v <= 1
}
