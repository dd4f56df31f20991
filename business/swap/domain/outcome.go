package domain

import (
	"time"
)

// Status is the result class of one plan entry.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusSkipped   Status = "skipped"
	StatusFailed    Status = "failed"
)

// Outcome records what happened to one plan entry for one account.
type Outcome struct {
	RunID    string
	Account  string
	Label    string
	Cycle    int
	Index    int
	Entry    PlanEntry
	Route    string
	Source   string
	Target   string
	Status   Status
	Amount   string
	Digest   string
	Err      error
	Attempts int
	Started  time.Time
	Duration time.Duration
}

// ErrorText returns the error message or "".
func (o Outcome) ErrorText() string {
	if o.Err == nil {
		return ""
	}
	return o.Err.Error()
}

// RunSummary counts outcomes across a run.
type RunSummary struct {
	RunID     string
	Accounts  int
	Succeeded int
	Skipped   int
	Failed    int
	Started   time.Time
	Finished  time.Time
}

// Add counts o.
func (s *RunSummary) Add(o Outcome) {
	switch o.Status {
	case StatusSucceeded:
		s.Succeeded++
	case StatusSkipped:
		s.Skipped++
	case StatusFailed:
		s.Failed++
	}
}

// Total returns the number of counted outcomes.
func (s RunSummary) Total() int {
	return s.Succeeded + s.Skipped + s.Failed
}
