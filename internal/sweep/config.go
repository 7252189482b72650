package sweep

import (
	"errors"
	"fmt"
	"math"

	"gaussian-ca-simulation/internal/automaton"
	"gaussian-ca-simulation/internal/stats"
)

// ErrInvalidConfiguration is wrapped by every validation failure. It is
// returned before any simulation work starts.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// Range is a closed, evenly spaced parameter interval.
type Range struct {
	Start float64
	Stop  float64
	Count int
}

// Values expands the range into Count ascending (for Start < Stop) values.
func (r Range) Values() []float64 {
	return stats.Linspace(r.Start, r.Stop, r.Count)
}

// Config is everything one sweep needs. Two sweeps with different Configs
// share no state.
type Config struct {
	GridSize int
	Steps    int
	Trials   int
	Params   []float64
	Init     automaton.Initializer
	Seed     int64
	// Workers bounds how many trials run at once. 0 means GOMAXPROCS.
	Workers int
}

func (c Config) Validate() error {
	if c.GridSize < 1 {
		return fmt.Errorf("%w: grid size must be positive, got %d", ErrInvalidConfiguration, c.GridSize)
	}
	if c.Steps < 1 {
		return fmt.Errorf("%w: step count must be positive, got %d", ErrInvalidConfiguration, c.Steps)
	}
	if c.Trials < 1 {
		return fmt.Errorf("%w: trial count must be positive, got %d", ErrInvalidConfiguration, c.Trials)
	}
	if len(c.Params) == 0 {
		return fmt.Errorf("%w: no parameter values to sweep", ErrInvalidConfiguration)
	}
	for i, x := range c.Params {
		if math.IsNaN(x) {
			return fmt.Errorf("%w: parameter %d is NaN", ErrInvalidConfiguration, i)
		}
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalidConfiguration, c.Workers)
	}
	if c.Init == nil {
		return fmt.Errorf("%w: no init policy", ErrInvalidConfiguration)
	}
	if err := c.Init.Validate(c.GridSize); err != nil {
		return fmt.Errorf("%w: %s policy: %v", ErrInvalidConfiguration, c.Init.Name(), err)
	}
	return nil
}
