package wait

import (
	"context"
	"log/slog"
	"time"

	"portwait/internal/domain"
	"portwait/internal/probe"
	"portwait/internal/shared/constants"
)

// ProberResolver resolves the prober for an endpoint kind. Production code
// uses probe.Factory; tests plug in deterministic stubs.
type ProberResolver interface {
	ProberFor(kind domain.Kind) (probe.Prober, error)
}

// Coordinator launches one monitor per endpoint, applies the aggregate
// success policy, enforces the global deadline, and cancels still-running
// monitors once the outcome is decided.
type Coordinator struct {
	probers ProberResolver
	retry   domain.RetryPolicy
	policy  domain.AggregatePolicy
	timeout time.Duration
	logger  *slog.Logger
	events  chan domain.AttemptEvent
}

type Option func(*Coordinator)

func WithProbers(resolver ProberResolver) Option {
	return func(c *Coordinator) { c.probers = resolver }
}

func WithRetryPolicy(policy domain.RetryPolicy) Option {
	return func(c *Coordinator) { c.retry = policy }
}

func WithAggregatePolicy(policy domain.AggregatePolicy) Option {
	return func(c *Coordinator) { c.policy = policy }
}

// WithTimeout sets the global deadline for the whole wait.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Coordinator) { c.timeout = timeout }
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) { c.logger = logger }
}

// WithEventStream enables the per-attempt event stream consumed through
// Events(). The stream is closed when Wait returns.
func WithEventStream(buffer int) Option {
	return func(c *Coordinator) { c.events = make(chan domain.AttemptEvent, buffer) }
}

func NewCoordinator(opts ...Option) *Coordinator {
	c := &Coordinator{
		probers: probe.NewFactory(),
		policy:  domain.RequireAll,
		timeout: constants.DefaultWaitTimeout,
		retry: domain.RetryPolicy{
			InitialInterval: constants.DefaultInitialInterval,
			Multiplier:      constants.DefaultMultiplier,
			MaxInterval:     constants.DefaultMaxInterval,
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Events exposes the attempt stream, or nil when not enabled.
func (c *Coordinator) Events() <-chan domain.AttemptEvent {
	return c.events
}

type indexedOutcome struct {
	index   int
	outcome domain.EndpointOutcome
}

// Wait blocks until the aggregate policy is decided or the global deadline
// expires. It returns an error only for configuration problems found before
// any probing starts; probe failures are part of the WaitResult.
func (c *Coordinator) Wait(ctx context.Context, endpoints []domain.EndpointSpec) (domain.WaitResult, error) {
	monitors, err := c.buildMonitors(endpoints)
	if err != nil {
		if c.events != nil {
			close(c.events)
		}
		return domain.WaitResult{}, err
	}

	start := time.Now()
	waitCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	c.logger.Info("waiting for endpoints",
		"count", len(endpoints),
		"policy", string(c.policy),
		"timeout", c.timeout,
	)

	done := make(chan indexedOutcome, len(monitors))
	for i, m := range monitors {
		go func(i int, m *monitor) {
			done <- indexedOutcome{index: i, outcome: m.run(waitCtx)}
		}(i, m)
	}

	outcomes := make([]domain.EndpointOutcome, len(monitors))
	decided := false
	for received := 0; received < len(monitors); received++ {
		r := <-done
		outcomes[r.index] = r.outcome

		// ANY: the first success decides the overall outcome; everyone
		// still running is cancelled immediately.
		if !decided && c.policy == domain.RequireAny && r.outcome.Status == domain.StatusSucceeded {
			decided = true
			cancel()
		}
	}

	if c.events != nil {
		close(c.events)
	}

	result := domain.WaitResult{
		Success:  domain.Evaluate(c.policy, outcomes),
		Elapsed:  time.Since(start),
		Outcomes: outcomes,
	}

	c.logger.Info("wait finished",
		"success", result.Success,
		"elapsed", result.Elapsed,
	)
	return result, nil
}

// buildMonitors validates the whole request up front so a configuration
// problem can never surface mid-wait.
func (c *Coordinator) buildMonitors(endpoints []domain.EndpointSpec) ([]*monitor, error) {
	if len(endpoints) == 0 {
		return nil, domain.NewConfigurationError("no endpoints to wait for")
	}
	if c.timeout <= 0 {
		return nil, domain.NewConfigurationError("global timeout must be positive, got %s", c.timeout)
	}
	if err := c.policy.Validate(); err != nil {
		return nil, err
	}
	if err := c.retry.Validate(); err != nil {
		return nil, err
	}

	monitors := make([]*monitor, len(endpoints))
	for i, spec := range endpoints {
		if err := spec.Validate(); err != nil {
			return nil, err
		}
		prober, err := c.probers.ProberFor(spec.Kind)
		if err != nil {
			return nil, err
		}
		monitors[i] = newMonitor(spec, prober, c.retry, c.logger, c.events)
	}
	return monitors, nil
}
