// Package retry provides the bounded exponential-backoff policy used
// by the Bitbucket client's rate-limit handling.
package retry

import (
	"context"
	"time"
)

// Policy describes a bounded retry schedule. Attempts are counted per
// logical call; state is never shared across calls.
type Policy struct {
	MaxRetries   int           // retries after the initial attempt
	InitialDelay time.Duration // delay before the first retry
	Multiplier   float64       // growth factor per retry
	MaxDelay     time.Duration // cap on any single delay (0 = uncapped)
}

// DefaultPolicy matches the upstream rate-limit contract: 1s initial
// delay doubling per retry.
func DefaultPolicy(maxRetries int) Policy {
	return Policy{
		MaxRetries:   maxRetries,
		InitialDelay: time.Second,
		Multiplier:   2.0,
		MaxDelay:     time.Minute,
	}
}

// Delay returns the backoff delay preceding retry number `retry`
// (zero-based): InitialDelay, then multiplied per step.
func (p Policy) Delay(retry int) time.Duration {
	d := p.InitialDelay
	if d <= 0 {
		d = time.Second
	}
	mult := p.Multiplier
	if mult < 1 {
		mult = 1
	}
	for i := 0; i < retry; i++ {
		d = time.Duration(float64(d) * mult)
		if p.MaxDelay > 0 && d > p.MaxDelay {
			return p.MaxDelay
		}
	}
	if p.MaxDelay > 0 && d > p.MaxDelay {
		return p.MaxDelay
	}
	return d
}

// DelayWithHint returns the server-supplied delay when present,
// otherwise the computed backoff. A server hint always wins over the
// schedule.
func (p Policy) DelayWithHint(retry int, hint time.Duration) time.Duration {
	if hint > 0 {
		return hint
	}
	return p.Delay(retry)
}

// Sleep waits for d or until ctx is done, whichever comes first.
func Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
