package engine

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyFailureCapAndOverflow(t *testing.T) {
	// Nine distinct diagnostics: three share the same message on different
	// source lines, six are unrelated. All nine count; five are shown.
	var lines []string
	for i := 0; i < 3; i++ {
		lines = append(lines,
			fmt.Sprintf("CompileSwift normal arm64 /src/view%d.swift", i),
			fmt.Sprintf("/src/view%d.swift:10:5: error: cannot find 'render' in scope", i),
			"        render()",
			"        ^",
		)
	}
	for i := 0; i < 6; i++ {
		lines = append(lines,
			fmt.Sprintf("CompileSwift normal arm64 /src/model%d.swift", i),
			fmt.Sprintf("/src/model%d.swift:4:1: error: missing return in function %d", i, i),
			"    }",
			"    ^",
		)
	}

	failure := classifyFailure(lines, 65)

	require.Len(t, failure.Entries, 5)
	assert.Equal(t, 4, failure.More)
	assert.Equal(t, 65, failure.ExitCode)
	assert.Contains(t, failure.Error(), "4 more")

	// Order preserved: the first entry is the first marker's context.
	assert.Contains(t, failure.Entries[0], "view0.swift:10:5")
}

func TestClassifyFailureDedup(t *testing.T) {
	block := []string{
		"CompileSwift normal arm64 /src/main.swift",
		"/src/main.swift:1:1: error: expansion failed",
		"    broken()",
		"    ^",
	}
	var lines []string
	for i := 0; i < 3; i++ {
		lines = append(lines, block...)
	}

	failure := classifyFailure(lines, 65)

	require.Len(t, failure.Entries, 1)
	assert.Equal(t, 0, failure.More)
}

func TestClassifyFailureContextShape(t *testing.T) {
	lines := []string{"one", "two", "x.swift: error: bad", "four", "five", "six"}

	failure := classifyFailure(lines, 1)

	require.Len(t, failure.Entries, 1)
	assert.Equal(t, "two\nx.swift: error: bad\nfour\nfive", failure.Entries[0])
}

func TestClassifyFailureBoundaryClamp(t *testing.T) {
	first := classifyFailure([]string{"x.swift: error: bad", "b"}, 1)
	require.Len(t, first.Entries, 1)
	assert.Equal(t, "x.swift: error: bad\nb", first.Entries[0])

	last := classifyFailure([]string{"a", "x.swift: error: bad"}, 1)
	require.Len(t, last.Entries, 1)
	assert.Equal(t, "a\nx.swift: error: bad", last.Entries[0])
}

func TestClassifyFailureSummaryMarker(t *testing.T) {
	lines := []string{
		"note: some context",
		"** BUILD FAILED **",
		"",
		"The following build commands failed:",
	}

	failure := classifyFailure(lines, 65)

	require.Len(t, failure.Entries, 1)
	assert.True(t, strings.Contains(failure.Entries[0], "** BUILD FAILED **"))
}

func TestClassifyFailureGenericFallback(t *testing.T) {
	failure := classifyFailure([]string{"nothing", "useful", "here"}, 70)

	require.Len(t, failure.Entries, 1)
	assert.Contains(t, failure.Entries[0], "no diagnostic output captured")
	assert.Contains(t, failure.Entries[0], "70")
	assert.Equal(t, 0, failure.More)
}
