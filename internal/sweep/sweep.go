// Package sweep drives the threshold experiment: for every parameter value it
// runs independent trials of the automaton and reduces their final grid means
// to a (mean, population std) point.
//
// Trials are the unit of work. They run on a bounded worker pool and each
// draws from its own FastRNG seeded by its (point, trial) position, so the
// series is identical for any worker count. Points are published strictly in
// parameter order: a finished point waits until every earlier point is done.
package sweep

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"gaussian-ca-simulation/internal/automaton"
	"gaussian-ca-simulation/internal/logging"
	"gaussian-ca-simulation/internal/rng"
	"gaussian-ca-simulation/internal/stats"
)

// Point is one parameter value with the statistics of its trial means.
type Point struct {
	Param       float64 `json:"param"`
	MeanOfMeans float64 `json:"mean_of_means"`
	StdOfMeans  float64 `json:"std_of_means"`
	Trials      int     `json:"trials"`
}

// Observer is notified as the sweep progresses. TrialDone may be called from
// several goroutines at once; PointDone is called from a single goroutine, in
// parameter order.
type Observer interface {
	TrialDone(param float64, trial int, mean float64, elapsed time.Duration)
	PointDone(index int, p Point)
}

type Option func(*Sweeper)

func WithLogger(l *slog.Logger) Option {
	return func(s *Sweeper) { s.logger = l }
}

// WithObserver adds an observer. It may be given more than once.
func WithObserver(o Observer) Option {
	return func(s *Sweeper) { s.observers = append(s.observers, o) }
}

// WithEngine replaces the sequential engine trials run on.
func WithEngine(e *automaton.Engine) Option {
	return func(s *Sweeper) { s.engine = e }
}

// Sweeper runs one configured sweep and exposes its series while it runs.
type Sweeper struct {
	cfg       Config
	engine    *automaton.Engine
	logger    *slog.Logger
	observers []Observer

	mu     sync.RWMutex
	points []Point
}

// NewSweeper validates cfg and returns a ready sweeper.
func NewSweeper(cfg Config, opts ...Option) (*Sweeper, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Sweeper{
		cfg:    cfg,
		engine: automaton.NewEngine(),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Sweeper) Config() Config { return s.cfg }

// Series returns a copy of the points completed so far, in parameter order.
func (s *Sweeper) Series() []Point {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Point, len(s.points))
	copy(out, s.points)
	return out
}

func (s *Sweeper) workers() int {
	if s.cfg.Workers > 0 {
		return s.cfg.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// pointAcc collects the trial means of one parameter value. Each trial
// writes its own slot; whoever records the last one reduces.
type pointAcc struct {
	index     int
	param     float64
	means     []float64
	remaining atomic.Int64
}

func newPointAcc(index int, param float64, trials int) *pointAcc {
	a := &pointAcc{index: index, param: param, means: make([]float64, trials)}
	a.remaining.Store(int64(trials))
	return a
}

func (a *pointAcc) record(trial int, mean float64) bool {
	a.means[trial] = mean
	return a.remaining.Add(-1) == 0
}

func (a *pointAcc) reduce() Point {
	sum := stats.Summarize(a.means)
	return Point{Param: a.param, MeanOfMeans: sum.Mean, StdOfMeans: sum.StdDev, Trials: sum.N}
}

type pointResult struct {
	index int
	point Point
}

// Run executes the sweep. If ctx is cancelled it stops scheduling trials,
// discards unfinished ones, and returns the contiguous prefix of completed
// points together with the context error.
func (s *Sweeper) Run(ctx context.Context) ([]Point, error) {
	params := s.cfg.Params
	nTrials := s.cfg.Trials

	s.mu.Lock()
	s.points = make([]Point, 0, len(params))
	s.mu.Unlock()

	s.logger.Info("sweep started",
		"points", len(params),
		"trials", nTrials,
		"steps", s.cfg.Steps,
		"grid_size", s.cfg.GridSize,
		"init", s.cfg.Init.Name(),
		"workers", s.workers(),
	)
	start := time.Now()

	accs := make([]*pointAcc, len(params))
	for i, x := range params {
		accs[i] = newPointAcc(i, x, nTrials)
	}

	// Buffered for every point so workers never block on the collector.
	resultsCh := make(chan pointResult, len(params))
	collectDone := make(chan struct{})
	go func() {
		defer close(collectDone)
		s.collect(resultsCh)
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers())

dispatch:
	for _, acc := range accs {
		for trial := 0; trial < nTrials; trial++ {
			if gctx.Err() != nil {
				break dispatch
			}
			seed := rng.TrialSeed(s.cfg.Seed, acc.index, nTrials, trial)
			g.Go(func() error {
				mean, err := s.trial(gctx, acc.param, trial, seed)
				if err != nil {
					return err
				}
				if acc.record(trial, mean) {
					resultsCh <- pointResult{index: acc.index, point: acc.reduce()}
				}
				return nil
			})
		}
	}

	err := g.Wait()
	close(resultsCh)
	<-collectDone

	series := s.Series()
	if err == nil && len(series) != len(params) {
		err = ctx.Err()
	}
	if err != nil {
		s.logger.Warn("sweep interrupted",
			"completed", len(series),
			"points", len(params),
			"elapsed", time.Since(start),
			"error", err,
		)
		return series, err
	}

	s.logger.Info("sweep finished", "points", len(series), "elapsed", time.Since(start))
	return series, nil
}

// collect publishes points in parameter order, buffering any that finish
// early until every earlier point is in.
func (s *Sweeper) collect(results <-chan pointResult) {
	buffer := make(map[int]Point)
	next := 0

	for res := range results {
		buffer[res.index] = res.point

		for {
			p, ok := buffer[next]
			if !ok {
				break
			}
			delete(buffer, next)

			s.mu.Lock()
			s.points = append(s.points, p)
			s.mu.Unlock()

			s.logger.Debug("sweep point",
				"index", next,
				"x", p.Param,
				"mean_of_means", p.MeanOfMeans,
				"std_of_means", p.StdOfMeans,
			)
			for _, o := range s.observers {
				o.PointDone(next, p)
			}
			next++
		}
	}
}

// trial builds a fresh grid, runs it for the configured number of steps and
// returns its final mean.
func (s *Sweeper) trial(ctx context.Context, x float64, trial int, seed int64) (float64, error) {
	start := time.Now()
	g := s.cfg.Init.Init(s.cfg.GridSize, rng.NewFastRNG(seed))

	final, err := s.engine.RunContext(ctx, g, x, s.cfg.Steps)
	if err != nil {
		return 0, err
	}
	mean := final.Mean()
	elapsed := time.Since(start)

	s.logger.Log(ctx, logging.LevelTrace, "trial done", "x", x, "trial", trial, "seed", seed, "mean", mean)
	for _, o := range s.observers {
		o.TrialDone(x, trial, mean, elapsed)
	}
	return mean, nil
}
