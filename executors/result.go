package executors

import (
	"fmt"
	"time"
)

type Status int

const (
	StatusSucceeded Status = iota + 1
	StatusFailed
	StatusSpawnFailed
	StatusTimedOut
	// StatusInterrupted means the caller's context ended before the snippet did.
	StatusInterrupted
)

func (s Status) String() string {
	switch s {
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	case StatusSpawnFailed:
		return "spawn failed"
	case StatusTimedOut:
		return "timed out"
	case StatusInterrupted:
		return "interrupted"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Result is the outcome of one run. A spawn failure is a result, not an error.
type Result struct {
	Status   Status
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
	// Timeout is the deadline the run was given.
	Timeout   time.Duration
	Truncated bool
}

// NeedsCorrection reports whether the snippet ran and did not succeed.
func (r Result) NeedsCorrection() bool {
	return r.Status == StatusFailed || r.Status == StatusTimedOut
}
