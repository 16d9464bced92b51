package report

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portwait/internal/domain"
)

func sampleResult() domain.WaitResult {
	return domain.WaitResult{
		Success: false,
		Elapsed: 5*time.Second + 250*time.Millisecond,
		Outcomes: []domain.EndpointOutcome{
			{
				Target:  "http://api:8080/health",
				Status:  domain.StatusSucceeded,
				Elapsed: 300 * time.Millisecond,
				Attempts: []domain.Attempt{
					{Seq: 1, Success: true, Latency: 12 * time.Millisecond},
				},
			},
			{
				Target:  "db:5432",
				Status:  domain.StatusTimedOut,
				Elapsed: 5 * time.Second,
				Attempts: []domain.Attempt{
					{Seq: 1, Success: false, Reason: domain.ReasonRefused, Error: "connection refused"},
					{Seq: 2, Success: false, Reason: domain.ReasonRefused, Error: "connection refused"},
				},
			},
		},
	}
}

func TestReporter_JSONSchema(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf, true, false, false)
	require.NoError(t, r.Report(sampleResult()))

	var decoded struct {
		Success        bool    `json:"success"`
		ElapsedSeconds float64 `json:"elapsed_seconds"`
		Endpoints      []struct {
			Target         string  `json:"target"`
			Status         string  `json:"status"`
			Attempts       int     `json:"attempts"`
			ElapsedSeconds float64 `json:"elapsed_seconds"`
			LastError      *string `json:"last_error"`
		} `json:"endpoints"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	assert.False(t, decoded.Success)
	assert.InDelta(t, 5.25, decoded.ElapsedSeconds, 0.001)
	require.Len(t, decoded.Endpoints, 2)

	assert.Equal(t, "http://api:8080/health", decoded.Endpoints[0].Target)
	assert.Equal(t, "succeeded", decoded.Endpoints[0].Status)
	assert.Equal(t, 1, decoded.Endpoints[0].Attempts)
	assert.Nil(t, decoded.Endpoints[0].LastError)

	assert.Equal(t, "db:5432", decoded.Endpoints[1].Target)
	assert.Equal(t, "timed_out", decoded.Endpoints[1].Status)
	assert.Equal(t, 2, decoded.Endpoints[1].Attempts)
	require.NotNil(t, decoded.Endpoints[1].LastError)
	assert.Equal(t, "refused: connection refused", *decoded.Endpoints[1].LastError)
}

func TestReporter_JSONNullLastError(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf, true, false, false)
	result := domain.WaitResult{
		Success: true,
		Outcomes: []domain.EndpointOutcome{
			{Target: "a:1", Status: domain.StatusSucceeded, Attempts: []domain.Attempt{{Seq: 1, Success: true}}},
		},
	}
	require.NoError(t, r.Report(result))
	assert.Contains(t, buf.String(), `"last_error": null`)
}

func TestReporter_Text(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf, false, false, false)
	require.NoError(t, r.Report(sampleResult()))

	out := buf.String()
	assert.Contains(t, out, "✓ http://api:8080/health")
	assert.Contains(t, out, "✗ db:5432 (attempts: 2, elapsed: 5.0s)")
	assert.Contains(t, out, "refused: connection refused")
	// success line stays terse without verbose
	assert.NotContains(t, out, "✓ http://api:8080/health (attempts")
}

func TestReporter_TextVerbose(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf, false, false, true)
	require.NoError(t, r.Report(sampleResult()))
	assert.Contains(t, buf.String(), "✓ http://api:8080/health (attempts: 1, elapsed: 0.3s)")
}

func TestReporter_QuietSuppressesSuccess(t *testing.T) {
	success := domain.WaitResult{
		Success: true,
		Outcomes: []domain.EndpointOutcome{
			{Target: "a:1", Status: domain.StatusSucceeded},
		},
	}

	var buf bytes.Buffer
	r := NewReporter(&buf, false, true, false)
	require.NoError(t, r.Report(success))
	assert.Empty(t, buf.String())

	buf.Reset()
	require.NoError(t, r.Report(sampleResult()))
	assert.NotEmpty(t, buf.String(), "failures are reported even in quiet mode")
}

func TestReporter_StreamAttempts(t *testing.T) {
	events := make(chan domain.AttemptEvent, 4)
	events <- domain.AttemptEvent{
		Target:    "db:5432",
		Attempt:   domain.Attempt{Seq: 1, Reason: domain.ReasonRefused},
		NextDelay: 500 * time.Millisecond,
	}
	events <- domain.AttemptEvent{
		Target:  "db:5432",
		Attempt: domain.Attempt{Seq: 2, Success: true, Latency: 3 * time.Millisecond},
	}
	close(events)

	var buf bytes.Buffer
	r := NewReporter(&buf, false, false, true)
	r.StreamAttempts(events)

	out := buf.String()
	assert.Contains(t, out, "attempt 1: db:5432 not ready (refused), retrying in 0.5s...")
	assert.Contains(t, out, "attempt 2: db:5432 ready")
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, ExitCode(domain.WaitResult{Success: true}))
	assert.Equal(t, ExitWaitFailed, ExitCode(domain.WaitResult{Success: false}))
}
