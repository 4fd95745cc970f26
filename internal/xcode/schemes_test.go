package xcode

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/prflight-io/prflight/internal/project"
)

// fakeRunner returns canned output keyed by the full command line.
type fakeRunner struct {
	outputs map[string]string
	errs    map[string]error
	calls   []string
}

func (f *fakeRunner) Output(_ context.Context, name string, args ...string) ([]byte, error) {
	key := strings.Join(append([]string{name}, args...), " ")
	f.calls = append(f.calls, key)
	if err, ok := f.errs[key]; ok {
		return nil, err
	}
	return []byte(f.outputs[key]), nil
}

func TestListSchemesWorkspace(t *testing.T) {
	run := &fakeRunner{outputs: map[string]string{
		"xcodebuild -list -json -workspace /repo/App.xcworkspace": `{"workspace":{"name":"App","schemes":["App","AppTests"]}}`,
	}}
	tc := &Toolchain{run: run}

	schemes, err := tc.ListSchemes(context.Background(), project.Descriptor{
		Name:      "App",
		Path:      "/repo/App.xcworkspace",
		Aggregate: true,
	})
	require.NoError(t, err)
	require.Equal(t, []string{"App", "AppTests"}, schemes)
}

func TestListSchemesProject(t *testing.T) {
	run := &fakeRunner{outputs: map[string]string{
		"xcodebuild -list -json -project /repo/Tool.xcodeproj": `{"project":{"configurations":["Debug","Release"],"name":"Tool","schemes":["Tool"],"targets":["Tool"]}}`,
	}}
	tc := &Toolchain{run: run}

	schemes, err := tc.ListSchemes(context.Background(), project.Descriptor{
		Name: "Tool",
		Path: "/repo/Tool.xcodeproj",
	})
	require.NoError(t, err)
	require.Equal(t, []string{"Tool"}, schemes)
}

func TestListSchemesEmpty(t *testing.T) {
	run := &fakeRunner{outputs: map[string]string{
		"xcodebuild -list -json -project /repo/Bare.xcodeproj": `{"project":{"name":"Bare","schemes":[]}}`,
	}}
	tc := &Toolchain{run: run}

	_, err := tc.ListSchemes(context.Background(), project.Descriptor{
		Name: "Bare",
		Path: "/repo/Bare.xcodeproj",
	})

	var noSchemes *NoSchemesError
	require.ErrorAs(t, err, &noSchemes)
	require.Equal(t, "Bare", noSchemes.Project)
}

func TestListSchemesInvocationFailure(t *testing.T) {
	run := &fakeRunner{errs: map[string]error{
		"xcodebuild -list -json -project /repo/App.xcodeproj": errors.New("exit status 70"),
	}}
	tc := &Toolchain{run: run}

	_, err := tc.ListSchemes(context.Background(), project.Descriptor{
		Name: "App",
		Path: "/repo/App.xcodeproj",
	})

	var invErr *InvocationError
	require.ErrorAs(t, err, &invErr)
	require.Equal(t, "xcodebuild", invErr.Tool)
}

func TestParseSchemesMalformed(t *testing.T) {
	_, err := parseSchemes([]byte("xcodebuild: error: unknown option"))
	require.Error(t, err)
}
