package sessions

import (
	"fmt"
	"strings"

	"github.com/reusee/analyst/corrections"
	"github.com/reusee/analyst/executors"
)

const skippedReport = "Execution skipped by user."

// Report renders what the operator sees for one executed snippet.
// record is nil when no correction was requested.
func Report(result executors.Result, record *corrections.Record) string {
	var b strings.Builder
	switch result.Status {

	case executors.StatusSucceeded:
		b.WriteString(result.Stdout)
		if result.Truncated {
			b.WriteString("\n[output truncated]")
		}
		return b.String()

	case executors.StatusSpawnFailed:
		return "Execution failed: " + result.Stderr

	case executors.StatusTimedOut:
		fmt.Fprintf(&b, "Execution timed out after %v:\n%s", result.Timeout, result.Stderr)

	case executors.StatusInterrupted:
		fmt.Fprintf(&b, "Execution interrupted:\n%s%s", result.Stdout, result.Stderr)

	default:
		fmt.Fprintf(&b, "Execution failed:\n%s", result.Stderr)

	}

	if result.Truncated {
		b.WriteString("\n[output truncated]")
	}
	if record != nil {
		b.WriteString("\n\nLLM Suggestion:\n")
		if record.Err != nil {
			fmt.Fprintf(&b, "Error: %v", record.Err)
		} else {
			b.WriteString(record.Suggestion)
		}
	}
	return b.String()
}
