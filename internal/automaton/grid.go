package automaton

import (
	"errors"
	"fmt"
)

// Grid is a square lattice of cell values stored row-major. Cells are only
// ever written by this package; callers receive fresh grids from Step and Run
// and read them through At, Snapshot and the summary methods.
type Grid struct {
	size  int
	cells []float64
}

// NewGrid returns a zero-filled size x size grid. It panics if size < 1;
// configuration is validated long before a grid is built.
func NewGrid(size int) *Grid {
	if size < 1 {
		panic(fmt.Sprintf("automaton: grid size must be positive, got %d", size))
	}
	return &Grid{size: size, cells: make([]float64, size*size)}
}

// Filled returns a size x size grid with every cell set to v.
func Filled(size int, v float64) *Grid {
	g := NewGrid(size)
	for i := range g.cells {
		g.cells[i] = v
	}
	return g
}

// FromRows builds a grid from a square matrix. Values are copied as-is,
// including out-of-range ones; the update rule clamps on the next step.
func FromRows(rows [][]float64) (*Grid, error) {
	n := len(rows)
	if n == 0 {
		return nil, errors.New("grid must have at least one row")
	}
	g := NewGrid(n)
	for i, row := range rows {
		if len(row) != n {
			return nil, fmt.Errorf("grid must be square: row %d has %d values, want %d", i, len(row), n)
		}
		copy(g.cells[i*n:(i+1)*n], row)
	}
	return g, nil
}

func (g *Grid) Size() int { return g.size }

func (g *Grid) At(i, j int) float64 { return g.cells[i*g.size+j] }

// Clone returns a deep copy.
func (g *Grid) Clone() *Grid {
	c := &Grid{size: g.size, cells: make([]float64, len(g.cells))}
	copy(c.cells, g.cells)
	return c
}

// Snapshot copies the cell values out for rendering.
func (g *Grid) Snapshot() [][]float64 {
	rows := make([][]float64, g.size)
	for i := range rows {
		rows[i] = make([]float64, g.size)
		copy(rows[i], g.cells[i*g.size:(i+1)*g.size])
	}
	return rows
}

// Sum is the total occupancy ("living cells").
func (g *Grid) Sum() float64 {
	sum := 0.0
	for _, v := range g.cells {
		sum += v
	}
	return sum
}

func (g *Grid) Mean() float64 {
	return g.Sum() / float64(len(g.cells))
}

// Equal reports whether both grids have the same size and identical cells.
func (g *Grid) Equal(o *Grid) bool {
	if g.size != o.size {
		return false
	}
	for i, v := range g.cells {
		if o.cells[i] != v {
			return false
		}
	}
	return true
}
