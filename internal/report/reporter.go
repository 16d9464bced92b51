package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"time"

	"portwait/internal/domain"
)

// Exit codes for the process.
const (
	ExitSuccess     = 0
	ExitWaitFailed  = 1
	ExitConfigError = 2
)

// Reporter renders a WaitResult as text or JSON and owns the exit-code
// mapping. It never mutates the result.
type Reporter struct {
	out     io.Writer
	json    bool
	quiet   bool
	verbose bool
}

func NewReporter(out io.Writer, jsonOutput, quiet, verbose bool) *Reporter {
	return &Reporter{
		out:     out,
		json:    jsonOutput,
		quiet:   quiet,
		verbose: verbose,
	}
}

type jsonEndpoint struct {
	Target         string  `json:"target"`
	Status         string  `json:"status"`
	Attempts       int     `json:"attempts"`
	ElapsedSeconds float64 `json:"elapsed_seconds"`
	LastError      *string `json:"last_error"`
}

type jsonResult struct {
	Success        bool           `json:"success"`
	ElapsedSeconds float64        `json:"elapsed_seconds"`
	Endpoints      []jsonEndpoint `json:"endpoints"`
}

// Report writes the final result. In quiet mode nothing is printed unless
// the wait failed.
func (r *Reporter) Report(result domain.WaitResult) error {
	if r.json {
		return r.reportJSON(result)
	}
	if r.quiet && result.Success {
		return nil
	}
	return r.reportText(result)
}

func (r *Reporter) reportJSON(result domain.WaitResult) error {
	payload := jsonResult{
		Success:        result.Success,
		ElapsedSeconds: roundSeconds(result.Elapsed.Seconds()),
		Endpoints:      make([]jsonEndpoint, 0, len(result.Outcomes)),
	}
	for _, outcome := range result.Outcomes {
		ep := jsonEndpoint{
			Target:         outcome.Target,
			Status:         string(outcome.Status),
			Attempts:       outcome.AttemptCount(),
			ElapsedSeconds: roundSeconds(outcome.Elapsed.Seconds()),
		}
		if lastErr := outcome.LastError(); lastErr != "" {
			ep.LastError = &lastErr
		}
		payload.Endpoints = append(payload.Endpoints, ep)
	}

	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

func (r *Reporter) reportText(result domain.WaitResult) error {
	for _, outcome := range result.Outcomes {
		mark := "✓"
		if outcome.Status != domain.StatusSucceeded {
			mark = "✗"
		}
		line := fmt.Sprintf("%s %s", mark, outcome.Target)
		if r.verbose || outcome.Status != domain.StatusSucceeded {
			line += fmt.Sprintf(" (attempts: %d, elapsed: %.1fs)", outcome.AttemptCount(), outcome.Elapsed.Seconds())
		}
		if lastErr := outcome.LastError(); lastErr != "" {
			line += " - " + lastErr
		}
		if _, err := fmt.Fprintln(r.out, line); err != nil {
			return err
		}
	}
	return nil
}

// StreamAttempts prints per-attempt progress in real time. It returns when
// the event channel is closed; intended for verbose text mode.
func (r *Reporter) StreamAttempts(events <-chan domain.AttemptEvent) {
	for event := range events {
		if r.json || r.quiet {
			continue
		}
		if event.Attempt.Success {
			fmt.Fprintf(r.out, "attempt %d: %s ready (latency: %s)\n",
				event.Attempt.Seq, event.Target, event.Attempt.Latency.Round(time.Millisecond))
			continue
		}
		if event.NextDelay > 0 {
			fmt.Fprintf(r.out, "attempt %d: %s not ready (%s), retrying in %.1fs...\n",
				event.Attempt.Seq, event.Target, event.Attempt.Reason, event.NextDelay.Seconds())
		} else {
			fmt.Fprintf(r.out, "attempt %d: %s not ready (%s)\n",
				event.Attempt.Seq, event.Target, event.Attempt.Reason)
		}
	}
}

// ExitCode maps the result to the process exit code.
func ExitCode(result domain.WaitResult) int {
	if result.Success {
		return ExitSuccess
	}
	return ExitWaitFailed
}

func roundSeconds(s float64) float64 {
	return math.Round(s*100) / 100
}
