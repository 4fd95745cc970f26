package engine

import (
	"fmt"
	"strings"
)

const (
	errorMarker  = "error:"
	failedMarker = "** BUILD FAILED **"

	// maxEntries bounds the diagnostics shown to the operator. Template
	// expansion can repeat one root cause hundreds of times; the cap keeps
	// the first few visible and counts the rest.
	maxEntries = 5
)

// BuildFailedError carries the classified diagnostics of a failed build.
// Entries holds at most maxEntries context blocks; More counts the distinct
// entries beyond the cap.
type BuildFailedError struct {
	ExitCode int
	Entries  []string
	More     int
}

func (e *BuildFailedError) Error() string {
	if e.More > 0 {
		return fmt.Sprintf("build failed (exit code %d): %d diagnostics shown, %d more", e.ExitCode, len(e.Entries), e.More)
	}
	return fmt.Sprintf("build failed (exit code %d): %d diagnostics", e.ExitCode, len(e.Entries))
}

// classifyFailure scans captured output for compiler error markers and the
// terminal build-failed summary. Each hit contributes the marker line with
// one line of context before and two after; identical entries collapse;
// order is preserved.
func classifyFailure(lines []string, exitCode int) *BuildFailedError {
	var entries []string
	seen := make(map[string]bool)
	total := 0

	for i, line := range lines {
		if !strings.Contains(line, errorMarker) && !strings.Contains(line, failedMarker) {
			continue
		}
		entry := contextAround(lines, i)
		if seen[entry] {
			continue
		}
		seen[entry] = true
		total++
		if len(entries) < maxEntries {
			entries = append(entries, entry)
		}
	}

	if total == 0 {
		entries = []string{fmt.Sprintf("exit code %d, no diagnostic output captured", exitCode)}
		total = 1
	}

	return &BuildFailedError{
		ExitCode: exitCode,
		Entries:  entries,
		More:     total - len(entries),
	}
}

// contextAround returns lines[i] with one line before and two after,
// clamped at the capture boundaries.
func contextAround(lines []string, i int) string {
	start := i - 1
	if start < 0 {
		start = 0
	}
	end := i + 3
	if end > len(lines) {
		end = len(lines)
	}
	return strings.Join(lines[start:end], "\n")
}
