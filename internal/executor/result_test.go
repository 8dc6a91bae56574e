package executor

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestCountSuccessful(t *testing.T) {
	tests := []struct {
		name     string
		outcomes []Outcome
		expected int
	}{
		{
			name:     "empty outcomes",
			outcomes: []Outcome{},
			expected: 0,
		},
		{
			name: "all successful",
			outcomes: []Outcome{
				{Name: "s1"},
				{Name: "s2"},
				{Name: "s3"},
			},
			expected: 3,
		},
		{
			name: "all failed",
			outcomes: []Outcome{
				{Name: "s1", Error: errors.New("error1")},
				{Name: "s2", Error: ErrCancelled},
			},
			expected: 0,
		},
		{
			name: "mixed",
			outcomes: []Outcome{
				{Name: "s1"},
				{Name: "s2", Error: errors.New("error")},
				{Name: "s3"},
				{Name: "s4", Error: errors.New("error")},
			},
			expected: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountSuccessful(tt.outcomes); got != tt.expected {
				t.Errorf("CountSuccessful() = %d, want %d", got, tt.expected)
			}
			if got := CountFailed(tt.outcomes); got != len(tt.outcomes)-tt.expected {
				t.Errorf("CountFailed() = %d, want %d", got, len(tt.outcomes)-tt.expected)
			}
		})
	}
}

func TestCountCancelled(t *testing.T) {
	outcomes := []Outcome{
		{Name: "s1", Error: ErrCancelled},
		{Name: "s2", Error: fmt.Errorf("%w: context canceled", ErrCancelled)},
		{Name: "s3", Error: errors.New("cannot open file")},
		{Name: "s4"},
	}

	if got := CountCancelled(outcomes); got != 2 {
		t.Errorf("CountCancelled() = %d, want 2", got)
	}
	if outcomes[3].Cancelled() || !outcomes[3].Succeeded() {
		t.Error("successful outcome misreported")
	}
}

func TestFilterFailed(t *testing.T) {
	outcomes := []Outcome{
		{Name: "s1"},
		{Name: "s2", Error: errors.New("e2")},
		{Name: "s3", Error: errors.New("e3")},
	}

	failed := FilterFailed(outcomes)
	if len(failed) != 2 {
		t.Fatalf("FilterFailed() returned %d, want 2", len(failed))
	}
	if failed[0].Name != "s2" || failed[1].Name != "s3" {
		t.Errorf("FilterFailed() kept wrong outcomes: %v", failed)
	}
}

func TestSummarize(t *testing.T) {
	outcomes := []Outcome{
		{Name: "s1", Duration: 10 * time.Millisecond},
		{Name: "s2", Duration: 30 * time.Millisecond, Error: errors.New("bad")},
		{Name: "s3", Duration: 20 * time.Millisecond, Error: ErrCancelled},
	}

	s := Summarize(outcomes)
	if s.Total != 3 || s.Successful != 1 || s.Failed != 2 || s.Cancelled != 1 {
		t.Errorf("Summarize() = %+v", s)
	}
	if s.MaxDuration != 30*time.Millisecond {
		t.Errorf("MaxDuration = %v, want 30ms", s.MaxDuration)
	}
	if s.TotalWait != 60*time.Millisecond {
		t.Errorf("TotalWait = %v, want 60ms", s.TotalWait)
	}

	str := s.String()
	for _, want := range []string{"Total: 3", "Successful: 1", "Failed: 2", "cancelled: 1", "Max wait: 30ms"} {
		if !strings.Contains(str, want) {
			t.Errorf("String() = %q, missing %q", str, want)
		}
	}
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	if s.String() != "Total: 0, Successful: 0, Failed: 0" {
		t.Errorf("String() = %q", s.String())
	}
}

func TestSuccessRate(t *testing.T) {
	tests := []struct {
		name     string
		outcomes []Outcome
		expected float64
	}{
		{"empty", nil, 0.0},
		{"all successful", []Outcome{{Name: "a"}, {Name: "b"}}, 100.0},
		{"half", []Outcome{{Name: "a"}, {Name: "b", Error: errors.New("x")}}, 50.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SuccessRate(tt.outcomes); got != tt.expected {
				t.Errorf("SuccessRate() = %v, want %v", got, tt.expected)
			}
		})
	}
}
