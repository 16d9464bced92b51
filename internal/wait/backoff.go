package wait

import (
	"math"
	"math/rand"
	"time"

	"portwait/internal/domain"
)

// Backoff computes the delay before the next probe of one endpoint:
// min(initial * multiplier^(n-1), maxInterval). Deterministic unless the
// policy enables seeded jitter.
type Backoff struct {
	policy domain.RetryPolicy
	rng    *rand.Rand
}

func NewBackoff(policy domain.RetryPolicy) *Backoff {
	b := &Backoff{policy: policy}
	if policy.Jitter {
		b.rng = rand.New(rand.NewSource(policy.JitterSeed))
	}
	return b
}

// NextDelay returns the wait after attempt number attempt (1-based).
func (b *Backoff) NextDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}

	delay := float64(b.policy.InitialInterval) * math.Pow(b.policy.Multiplier, float64(attempt-1))
	capped := float64(b.policy.MaxInterval)
	if delay > capped || math.IsInf(delay, 1) {
		delay = capped
	}

	d := time.Duration(delay)
	if b.rng != nil && d > 0 {
		// Spread by up to 25% of the computed delay.
		d += time.Duration(b.rng.Int63n(int64(d)/4 + 1))
	}
	return d
}

// HasAttemptsRemaining reports whether another probe is allowed after
// attemptsMade probes. MaxAttempts of 0 means unbounded.
func (b *Backoff) HasAttemptsRemaining(attemptsMade int) bool {
	return b.policy.MaxAttempts == 0 || attemptsMade < b.policy.MaxAttempts
}
