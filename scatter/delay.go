package scatter

import (
	"context"
	"math/rand"
	"time"
)

// DelayPolicy selects a pacing interval: a fixed duration, or a uniformly
// random duration in [Min, Max].
type DelayPolicy struct {
	Fixed time.Duration
	Min   time.Duration
	Max   time.Duration

	random bool
}

// FixedDelay returns a policy that always waits d.
func FixedDelay(d time.Duration) DelayPolicy {
	return DelayPolicy{Fixed: d}
}

// DelayRange returns a policy that waits a uniformly random duration in
// [min, max].
func DelayRange(min, max time.Duration) DelayPolicy {
	return DelayPolicy{Min: min, Max: max, random: true}
}

// Next returns the next pacing interval.
func (p DelayPolicy) Next(rng *rand.Rand) time.Duration {
	if !p.random {
		return p.Fixed
	}
	return p.Min + time.Duration(rng.Int63n(int64(p.Max-p.Min)+1))
}

// WaitFunc is the cooperative suspension point between steps. Tests stub it
// to record requested durations instead of sleeping.
type WaitFunc func(ctx context.Context, d time.Duration) error

// Wait blocks for d or until the context is done.
func Wait(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
