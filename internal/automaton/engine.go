package automaton

import (
	"context"
	"sync"
)

// ctxCheckInterval is how many steps RunContext runs between cancellation checks.
const ctxCheckInterval = 16

// minRowsPerWorker keeps small grids on a single goroutine.
const minRowsPerWorker = 8

// ObserveFunc receives a copy of the grid after step t (0-based).
type ObserveFunc func(t int, g *Grid)

// Engine advances grids. With more than one worker a step is split into row
// bands computed concurrently; the result is identical to the sequential rule
// because every cell only reads the previous generation.
type Engine struct {
	workers int
}

type Option func(*Engine)

// WithWorkers sets how many goroutines share one step. Values below 1 mean 1.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n < 1 {
			n = 1
		}
		e.workers = n
	}
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{workers: 1}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Workers() int { return e.workers }

// Step returns the next generation of g under threshold x. g is not modified.
func (e *Engine) Step(g *Grid, x float64) *Grid {
	out := &Grid{size: g.size, cells: make([]float64, len(g.cells))}
	e.stepInto(out, g, x)
	return out
}

// Run applies Step steps times and returns only the final grid.
func (e *Engine) Run(g *Grid, x float64, steps int) *Grid {
	out, _ := e.run(context.Background(), g, x, steps, 0, nil)
	return out
}

// RunContext is Run with cancellation. On cancellation the partial grid is
// discarded and ctx.Err() is returned.
func (e *Engine) RunContext(ctx context.Context, g *Grid, x float64, steps int) (*Grid, error) {
	return e.run(ctx, g, x, steps, 0, nil)
}

// RunObserved is Run that hands fn a snapshot after every step t with
// t%every == 0. every < 1 disables observation.
func (e *Engine) RunObserved(g *Grid, x float64, steps, every int, fn ObserveFunc) *Grid {
	out, _ := e.run(context.Background(), g, x, steps, every, fn)
	return out
}

func (e *Engine) run(ctx context.Context, g *Grid, x float64, steps, every int, fn ObserveFunc) (*Grid, error) {
	cur := g.Clone()
	if steps <= 0 {
		return cur, nil
	}
	nxt := &Grid{size: g.size, cells: make([]float64, len(g.cells))}

	for t := 0; t < steps; t++ {
		if t%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		e.stepInto(nxt, cur, x)
		cur, nxt = nxt, cur

		if fn != nil && every > 0 && t%every == 0 {
			fn(t, cur.Clone())
		}
	}
	return cur, nil
}

func (e *Engine) stepInto(dst, src *Grid, x float64) {
	n := src.size
	workers := min(e.workers, n/minRowsPerWorker)
	if workers <= 1 {
		stepRows(dst.cells, src.cells, n, x, 0, n)
		return
	}

	band := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for lo := 0; lo < n; lo += band {
		hi := min(lo+band, n)
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			stepRows(dst.cells, src.cells, n, x, lo, hi)
		}(lo, hi)
	}
	wg.Wait()
}
