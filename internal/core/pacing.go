package core

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"
)

// Pacing bounds the random pause between browser launches, in whole seconds.
type Pacing struct {
	MinSeconds int `json:"min_seconds"`
	MaxSeconds int `json:"max_seconds"`
}

func (p Pacing) Validate() error {
	if p.MinSeconds < 0 || p.MaxSeconds < p.MinSeconds || p.MaxSeconds > MaxPauseSeconds {
		return fmt.Errorf("%w: pacing must satisfy 0 <= min <= max <= %d, got [%d, %d]",
			ErrInvalidInput, MaxPauseSeconds, p.MinSeconds, p.MaxSeconds)
	}
	return nil
}

// Draw picks a pause uniformly from [MinSeconds, MaxSeconds], both inclusive.
// A nil rng uses the global source.
func (p Pacing) Draw(rng *rand.Rand) time.Duration {
	span := p.MaxSeconds - p.MinSeconds + 1
	var n int
	if rng != nil {
		n = rng.IntN(span)
	} else {
		n = rand.IntN(span)
	}
	return time.Duration(p.MinSeconds+n) * time.Second
}

// Sleeper pauses for d, returning early with ctx.Err() when ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// SleepContext is the default Sleeper.
func SleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
