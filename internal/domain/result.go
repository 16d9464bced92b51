package domain

import (
	"fmt"
	"time"
)

// FailureReason classifies why one probe did not succeed.
type FailureReason string

const (
	ReasonTimeout         FailureReason = "timeout"
	ReasonRefused         FailureReason = "refused"
	ReasonDNSError        FailureReason = "dns-error"
	ReasonUnreachable     FailureReason = "unreachable"
	ReasonConnectionError FailureReason = "connection-error"
	ReasonTLSError        FailureReason = "tls-error"
	ReasonServerError     FailureReason = "server-error"
)

// UnexpectedStatus builds the reason for an HTTP response outside the
// expected status set.
func UnexpectedStatus(code int) FailureReason {
	return FailureReason(fmt.Sprintf("unexpected-status:%d", code))
}

// Attempt records one probe execution. Sequence numbers start at 1 and are
// strictly increasing per endpoint.
type Attempt struct {
	Seq       int
	Timestamp time.Time
	Success   bool
	Reason    FailureReason
	Error     string
	Latency   time.Duration
}

// OutcomeStatus is the terminal state of one endpoint's monitor.
type OutcomeStatus string

const (
	StatusSucceeded OutcomeStatus = "succeeded"
	StatusTimedOut  OutcomeStatus = "timed_out"
	StatusCancelled OutcomeStatus = "cancelled"
)

// EndpointOutcome is created exactly once, when an endpoint's monitor loop
// exits. Attempts is the endpoint's complete, ordered attempt log.
type EndpointOutcome struct {
	EndpointID string
	Target     string
	Status     OutcomeStatus
	Attempts   []Attempt
	Elapsed    time.Duration
}

func (o EndpointOutcome) AttemptCount() int {
	return len(o.Attempts)
}

// LastAttempt returns the final recorded attempt, if any.
func (o EndpointOutcome) LastAttempt() (Attempt, bool) {
	if len(o.Attempts) == 0 {
		return Attempt{}, false
	}
	return o.Attempts[len(o.Attempts)-1], true
}

// LastError describes the most recent failure, or "" for a succeeded
// endpoint.
func (o EndpointOutcome) LastError() string {
	last, ok := o.LastAttempt()
	if !ok {
		switch o.Status {
		case StatusSucceeded:
			return ""
		case StatusCancelled:
			return "cancelled before first probe"
		default:
			return string(ReasonTimeout)
		}
	}
	if last.Success {
		return ""
	}
	if last.Error != "" {
		return fmt.Sprintf("%s: %s", last.Reason, last.Error)
	}
	return string(last.Reason)
}

// WaitResult is the aggregate handed to the reporter. Outcomes preserve the
// input endpoint order.
type WaitResult struct {
	Success  bool
	Elapsed  time.Duration
	Outcomes []EndpointOutcome
}

// AttemptEvent is streamed to the reporter in verbose mode as attempts
// happen. NextDelay is zero when the monitor is done with the endpoint.
type AttemptEvent struct {
	EndpointID string
	Target     string
	Attempt    Attempt
	NextDelay  time.Duration
}
