package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUnexpectedStatus(t *testing.T) {
	assert.Equal(t, FailureReason("unexpected-status:503"), UnexpectedStatus(503))
}

func TestEndpointOutcome_LastError(t *testing.T) {
	succeeded := EndpointOutcome{
		Status: StatusSucceeded,
		Attempts: []Attempt{
			{Seq: 1, Success: false, Reason: ReasonRefused, Error: "connection refused"},
			{Seq: 2, Success: true},
		},
	}
	assert.Empty(t, succeeded.LastError())

	failed := EndpointOutcome{
		Status: StatusTimedOut,
		Attempts: []Attempt{
			{Seq: 1, Success: false, Reason: ReasonRefused, Error: "dial tcp: connection refused"},
		},
	}
	assert.Equal(t, "refused: dial tcp: connection refused", failed.LastError())

	reasonOnly := EndpointOutcome{
		Status: StatusTimedOut,
		Attempts: []Attempt{
			{Seq: 1, Success: false, Reason: ReasonTimeout},
		},
	}
	assert.Equal(t, "timeout", reasonOnly.LastError())

	noAttempts := EndpointOutcome{Status: StatusTimedOut}
	assert.Equal(t, "timeout", noAttempts.LastError())

	cancelledNoAttempts := EndpointOutcome{Status: StatusCancelled}
	assert.Equal(t, "cancelled before first probe", cancelledNoAttempts.LastError())
}

func TestEndpointOutcome_LastAttempt(t *testing.T) {
	empty := EndpointOutcome{}
	_, ok := empty.LastAttempt()
	assert.False(t, ok)
	assert.Equal(t, 0, empty.AttemptCount())

	now := time.Now()
	o := EndpointOutcome{Attempts: []Attempt{
		{Seq: 1, Timestamp: now},
		{Seq: 2, Timestamp: now.Add(time.Second), Success: true},
	}}
	last, ok := o.LastAttempt()
	assert.True(t, ok)
	assert.Equal(t, 2, last.Seq)
	assert.Equal(t, 2, o.AttemptCount())
}
