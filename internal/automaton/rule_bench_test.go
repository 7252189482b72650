package automaton

import (
	"testing"

	"gaussian-ca-simulation/internal/rng"
)

// Benchmark the hot path: one step of the sweep-sized grid
func BenchmarkStepSmall(b *testing.B) {
	g := Noisy{Base: 0.8, Sigma: 0.05}.Init(6, rng.NewFastRNG(12345))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Step(g, 0.04)
	}
}

// Benchmark one step of the interactive-sized grid
func BenchmarkStepLarge(b *testing.B) {
	g := Noisy{Base: 0.8, Sigma: 0.05}.Init(100, rng.NewFastRNG(12345))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Step(g, 0.0368)
	}
}

// Benchmark the interactive-sized grid split across row bands
func BenchmarkStepLargeParallel(b *testing.B) {
	g := Noisy{Base: 0.8, Sigma: 0.05}.Init(100, rng.NewFastRNG(12345))
	e := NewEngine(WithWorkers(8))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.Step(g, 0.0368)
	}
}

// Benchmark a full trial as the sweep runs it
func BenchmarkTrial(b *testing.B) {
	p := Noisy{Base: 0.8, Sigma: 0.05}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		g := p.Init(6, rng.NewFastRNG(int64(i*997)))
		Run(g, 0.04, 300).Mean()
	}
}
