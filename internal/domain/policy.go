package domain

import "time"

// AggregatePolicy combines the per-endpoint outcomes into one overall result.
type AggregatePolicy string

const (
	RequireAll AggregatePolicy = "all"
	RequireAny AggregatePolicy = "any"
)

func (p AggregatePolicy) Validate() error {
	switch p {
	case RequireAll, RequireAny:
		return nil
	default:
		return NewConfigurationError("unknown aggregate policy %q (use %q or %q)", p, RequireAll, RequireAny)
	}
}

// RetryPolicy drives the backoff schedule. It is shared read-only across all
// monitors.
type RetryPolicy struct {
	InitialInterval time.Duration
	Multiplier      float64
	MaxInterval     time.Duration

	// MaxAttempts caps probes per endpoint; 0 means unbounded.
	MaxAttempts int

	// EndpointDeadline caps one endpoint's total wait independently of the
	// global deadline; 0 means only the global deadline applies.
	EndpointDeadline time.Duration

	// Jitter spreads delays by up to 25% of the computed value. It is off by
	// default and seeded explicitly so schedules stay reproducible.
	Jitter     bool
	JitterSeed int64
}

func (p RetryPolicy) Validate() error {
	if p.InitialInterval <= 0 {
		return NewConfigurationError("retry: initial interval must be positive, got %s", p.InitialInterval)
	}
	if p.Multiplier < 1.0 {
		return NewConfigurationError("retry: multiplier must be >= 1.0, got %g", p.Multiplier)
	}
	if p.MaxInterval < p.InitialInterval {
		return NewConfigurationError("retry: max interval %s is below initial interval %s", p.MaxInterval, p.InitialInterval)
	}
	if p.MaxAttempts < 0 {
		return NewConfigurationError("retry: max attempts must not be negative, got %d", p.MaxAttempts)
	}
	if p.EndpointDeadline < 0 {
		return NewConfigurationError("retry: endpoint deadline must not be negative, got %s", p.EndpointDeadline)
	}
	return nil
}

// Evaluate decides overall success from a complete set of outcomes. It is a
// pure function of the policy and the outcomes.
func Evaluate(policy AggregatePolicy, outcomes []EndpointOutcome) bool {
	if len(outcomes) == 0 {
		return false
	}
	succeeded := 0
	for _, o := range outcomes {
		if o.Status == StatusSucceeded {
			succeeded++
		}
	}
	if policy == RequireAny {
		return succeeded > 0
	}
	return succeeded == len(outcomes)
}
