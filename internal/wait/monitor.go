package wait

import (
	"context"
	"log/slog"
	"time"

	"portwait/internal/domain"
	"portwait/internal/probe"
)

// monitor owns one endpoint's lifecycle: it repeatedly probes through the
// backoff schedule until success, attempt/deadline exhaustion, or
// cancellation, then emits exactly one terminal outcome. The attempt log is
// written only by the monitor itself.
type monitor struct {
	spec    domain.EndpointSpec
	prober  probe.Prober
	backoff *Backoff
	policy  domain.RetryPolicy
	logger  *slog.Logger
	events  chan<- domain.AttemptEvent
}

func newMonitor(spec domain.EndpointSpec, prober probe.Prober, policy domain.RetryPolicy, logger *slog.Logger, events chan<- domain.AttemptEvent) *monitor {
	return &monitor{
		spec:    spec,
		prober:  prober,
		backoff: NewBackoff(policy),
		policy:  policy,
		logger:  logger,
		events:  events,
	}
}

// run drives the probe loop. ctx carries both the global deadline and the
// coordinator's cancellation signal.
func (m *monitor) run(ctx context.Context) domain.EndpointOutcome {
	started := time.Now()
	var attempts []domain.Attempt

	for {
		if err := ctx.Err(); err != nil {
			return m.terminal(err, started, attempts)
		}
		if m.endpointBudgetSpent(started) {
			return m.outcome(domain.StatusTimedOut, started, attempts)
		}

		seq := len(attempts) + 1
		attempt, interrupted := m.probeOnce(ctx, seq, started)
		if interrupted {
			// The in-flight probe finished after the wait was decided;
			// its result is discarded, not merged.
			return m.terminal(ctx.Err(), started, attempts)
		}

		attempts = append(attempts, attempt)

		if attempt.Success {
			m.emit(attempt, 0)
			m.logger.Debug("endpoint ready",
				"target", m.spec.Target,
				"attempts", seq,
				"latency", attempt.Latency,
			)
			return m.outcome(domain.StatusSucceeded, started, attempts)
		}

		if !m.backoff.HasAttemptsRemaining(seq) {
			m.emit(attempt, 0)
			return m.outcome(domain.StatusTimedOut, started, attempts)
		}

		delay := m.backoff.NextDelay(seq)
		m.emit(attempt, delay)
		m.logger.Debug("endpoint not ready",
			"target", m.spec.Target,
			"attempt", seq,
			"reason", string(attempt.Reason),
			"retry_in", delay,
		)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return m.terminal(ctx.Err(), started, attempts)
		case <-timer.C:
		}
	}
}

// probeOnce runs a single probe with its timeout clamped to the remaining
// budget. interrupted is true when the loop context ended while the probe
// was in flight.
func (m *monitor) probeOnce(ctx context.Context, seq int, started time.Time) (domain.Attempt, bool) {
	timeout := m.spec.ProbeTimeout()
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	if m.policy.EndpointDeadline > 0 {
		if remaining := m.policy.EndpointDeadline - time.Since(started); remaining < timeout {
			timeout = remaining
		}
	}

	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	begin := time.Now()
	err := m.prober.Probe(probeCtx, m.spec)
	latency := time.Since(begin)

	// Anything that finishes after the loop context ended is a late result,
	// success included.
	if ctx.Err() != nil {
		return domain.Attempt{}, true
	}

	attempt := domain.Attempt{
		Seq:       seq,
		Timestamp: begin,
		Success:   err == nil,
		Latency:   latency,
	}
	if err != nil {
		attempt.Reason = probe.Classify(m.spec.Kind, err)
		attempt.Error = err.Error()
	}
	return attempt, false
}

func (m *monitor) endpointBudgetSpent(started time.Time) bool {
	return m.policy.EndpointDeadline > 0 && time.Since(started) >= m.policy.EndpointDeadline
}

// terminal maps the context error onto the terminal status: an expired
// global deadline is a timeout, a coordinator cancel is a cancellation.
func (m *monitor) terminal(ctxErr error, started time.Time, attempts []domain.Attempt) domain.EndpointOutcome {
	status := domain.StatusCancelled
	if ctxErr == context.DeadlineExceeded {
		status = domain.StatusTimedOut
	}
	return m.outcome(status, started, attempts)
}

func (m *monitor) outcome(status domain.OutcomeStatus, started time.Time, attempts []domain.Attempt) domain.EndpointOutcome {
	return domain.EndpointOutcome{
		EndpointID: m.spec.ID,
		Target:     m.spec.Target,
		Status:     status,
		Attempts:   attempts,
		Elapsed:    time.Since(started),
	}
}

// emit forwards an attempt to the event stream without ever blocking the
// probe loop. A slow consumer loses events, not time.
func (m *monitor) emit(attempt domain.Attempt, nextDelay time.Duration) {
	if m.events == nil {
		return
	}
	event := domain.AttemptEvent{
		EndpointID: m.spec.ID,
		Target:     m.spec.Target,
		Attempt:    attempt,
		NextDelay:  nextDelay,
	}
	select {
	case m.events <- event:
	default:
	}
}
