package session

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prflight-io/prflight/internal/engine"
	"github.com/prflight-io/prflight/internal/hosting"
	"github.com/prflight-io/prflight/internal/xcode"
)

func TestDiffPullRequests(t *testing.T) {
	known := map[int]bool{1: true, 2: true, 3: true}
	current := []hosting.PullRequest{prFixture(2, "two"), prFixture(3, "three"), prFixture(4, "four")}

	fresh, closed := DiffPullRequests(known, current)
	require.Len(t, fresh, 1)
	assert.Equal(t, 4, fresh[0].Number)
	assert.Equal(t, []int{1}, closed)
}

func TestDiffPullRequestsEmptyKnown(t *testing.T) {
	current := []hosting.PullRequest{prFixture(5, "five"), prFixture(6, "six")}

	fresh, closed := DiffPullRequests(map[int]bool{}, current)
	require.Len(t, fresh, 2)
	assert.Equal(t, 5, fresh[0].Number)
	assert.Equal(t, 6, fresh[1].Number)
	assert.Empty(t, closed)
}

func TestDiffPullRequestsAllClosed(t *testing.T) {
	known := map[int]bool{3: true, 1: true, 2: true}

	fresh, closed := DiffPullRequests(known, nil)
	assert.Empty(t, fresh)
	assert.Equal(t, []int{1, 2, 3}, closed)
}

func TestDiffPullRequestsNoChange(t *testing.T) {
	known := map[int]bool{1: true, 2: true}
	current := []hosting.PullRequest{prFixture(1, "one"), prFixture(2, "two")}

	fresh, closed := DiffPullRequests(known, current)
	assert.Empty(t, fresh)
	assert.Empty(t, closed)
}

func TestWatchAnnouncesChanges(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var out bytes.Buffer
	baseline := []hosting.PullRequest{prFixture(1, "one"), prFixture(2, "two"), prFixture(3, "three")}
	changed := []hosting.PullRequest{prFixture(2, "two"), prFixture(3, "three"), prFixture(4, "four")}

	h := &fakeHosting{
		repo:    repoFixture(),
		prLists: [][]hosting.PullRequest{baseline, changed},
	}
	h.onList = func(call int) {
		if call >= 3 {
			cancel()
		}
	}
	p := &scriptedPrompter{confirms: []bool{false}}
	d := testDriver(h, &fakeTargets{}, &fakeRunner{}, p, &out)

	require.NoError(t, d.Watch(ctx, "acme/app", time.Millisecond))

	got := out.String()
	assert.Contains(t, got, "Watching acme/app (3 open pull requests, polling every 1ms). Press Ctrl-C to stop.")
	assert.Contains(t, got, "Pull request #1 closed or merged.")
	assert.Contains(t, got, "New pull request: #4 four (@alice, feature/4)")
	assert.Contains(t, got, "Stopped watching.")
	// The baseline poll announces nothing.
	assert.NotContains(t, got, "New pull request: #1")
	assert.Equal(t, []string{"Build #4 now?"}, p.confirmLog)
}

func TestWatchBuildsOnConfirm(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var out bytes.Buffer
	h := &fakeHosting{
		repo: repoFixture(),
		prLists: [][]hosting.PullRequest{
			nil,
			{prFixture(4, "four")},
		},
	}
	h.onList = func(call int) {
		if call >= 3 {
			cancel()
		}
	}
	tg := &fakeTargets{
		schemes:  []string{"App"},
		simLists: [][]xcode.Simulator{{{Name: "iPhone 15", UDID: "AAAA-1111", State: "Booted", Platform: "iOS 17 0"}}},
	}
	r := &fakeRunner{outcomes: []*engine.Outcome{succeededOutcome()}}
	p := &scriptedPrompter{confirms: []bool{true}, selections: []int{0}}

	d := testDriver(h, tg, r, p, &out)
	require.NoError(t, d.Watch(ctx, "acme/app", time.Millisecond))

	require.Len(t, r.requests, 1)
	assert.Contains(t, out.String(), "Checking out acme/app at feature/4...")
	assert.Contains(t, out.String(), "Build succeeded")
}

func TestWatchPollFailure(t *testing.T) {
	var out bytes.Buffer
	h := &fakeHosting{
		repo:       repoFixture(),
		prLists:    [][]hosting.PullRequest{{prFixture(1, "one")}},
		failOnCall: 2,
		pollErr:    errors.New("rate limited"),
	}
	d := testDriver(h, &fakeTargets{}, &fakeRunner{}, &scriptedPrompter{}, &out)

	err := d.Watch(context.Background(), "acme/app", time.Millisecond)
	require.ErrorContains(t, err, "poll failed")
	require.ErrorContains(t, err, "rate limited")
}

func TestWatchInvalidRepo(t *testing.T) {
	var out bytes.Buffer
	d := testDriver(&fakeHosting{}, &fakeTargets{}, &fakeRunner{}, &scriptedPrompter{}, &out)

	err := d.Watch(context.Background(), "nope", time.Second)
	require.ErrorContains(t, err, "invalid repository")
}
