package executor

import (
	"fmt"
	"strings"
	"time"
)

// Outcome records how one named task ended, as seen by whoever collected
// its future
type Outcome struct {
	// Name identifies the task (a shard name in the pipeline)
	Name string

	// Error is the failure, nil on success
	Error error

	// Duration is how long the collector waited for the future
	Duration time.Duration
}

// Succeeded returns true if the task resolved without error
func (o Outcome) Succeeded() bool {
	return o.Error == nil
}

// Cancelled returns true if the task never ran
func (o Outcome) Cancelled() bool {
	return IsCancelled(o.Error)
}

// CountSuccessful returns the number of successful outcomes
func CountSuccessful(outcomes []Outcome) int {
	count := 0
	for _, o := range outcomes {
		if o.Error == nil {
			count++
		}
	}
	return count
}

// CountFailed returns the number of failed outcomes, cancellations included
func CountFailed(outcomes []Outcome) int {
	return len(outcomes) - CountSuccessful(outcomes)
}

// CountCancelled returns the number of outcomes for tasks that never ran
func CountCancelled(outcomes []Outcome) int {
	count := 0
	for _, o := range outcomes {
		if o.Cancelled() {
			count++
		}
	}
	return count
}

// FilterFailed returns only the failed outcomes
func FilterFailed(outcomes []Outcome) []Outcome {
	filtered := make([]Outcome, 0, len(outcomes))
	for _, o := range outcomes {
		if o.Error != nil {
			filtered = append(filtered, o)
		}
	}
	return filtered
}

// Summary provides a summary of collected outcomes
type Summary struct {
	Total       int
	Successful  int
	Failed      int
	Cancelled   int
	MaxDuration time.Duration
	TotalWait   time.Duration
}

// Summarize creates a summary of the outcomes
func Summarize(outcomes []Outcome) Summary {
	s := Summary{
		Total:      len(outcomes),
		Successful: CountSuccessful(outcomes),
		Failed:     CountFailed(outcomes),
		Cancelled:  CountCancelled(outcomes),
	}

	for _, o := range outcomes {
		s.TotalWait += o.Duration
		if o.Duration > s.MaxDuration {
			s.MaxDuration = o.Duration
		}
	}

	return s
}

// String returns a human-readable string representation of the summary
func (s Summary) String() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Total: %d, ", s.Total))
	sb.WriteString(fmt.Sprintf("Successful: %d, ", s.Successful))
	sb.WriteString(fmt.Sprintf("Failed: %d", s.Failed))

	if s.Cancelled > 0 {
		sb.WriteString(fmt.Sprintf(" (cancelled: %d)", s.Cancelled))
	}

	if s.Total > 0 {
		sb.WriteString(fmt.Sprintf(", Max wait: %s", s.MaxDuration.Round(time.Millisecond)))
	}

	return sb.String()
}

// SuccessRate returns the success rate as a percentage (0.0 to 100.0)
func SuccessRate(outcomes []Outcome) float64 {
	if len(outcomes) == 0 {
		return 0.0
	}
	return float64(CountSuccessful(outcomes)) / float64(len(outcomes)) * 100.0
}
