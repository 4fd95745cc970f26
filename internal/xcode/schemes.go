package xcode

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/prflight-io/prflight/internal/project"
)

// NoSchemesError indicates the project lists no buildable schemes, which
// usually means shared schemes were never committed to the repository.
type NoSchemesError struct {
	Project string
}

func (e *NoSchemesError) Error() string {
	return fmt.Sprintf("no schemes found in %s", e.Project)
}

// schemeList matches xcodebuild -list -json output. The scheme array nests
// under "workspace" or "project" depending on which flag was passed.
type schemeList struct {
	Workspace struct {
		Schemes []string `json:"schemes"`
	} `json:"workspace"`
	Project struct {
		Schemes []string `json:"schemes"`
	} `json:"project"`
}

// ListSchemes returns the schemes defined by the given project descriptor.
// An empty scheme list is reported as *NoSchemesError so callers can tell
// an unbuildable project apart from a broken toolchain.
func (t *Toolchain) ListSchemes(ctx context.Context, proj project.Descriptor) ([]string, error) {
	args := []string{"-list", "-json"}
	if proj.Aggregate {
		args = append(args, "-workspace", proj.Path)
	} else {
		args = append(args, "-project", proj.Path)
	}

	out, err := t.run.Output(ctx, "xcodebuild", args...)
	if err != nil {
		return nil, &InvocationError{Tool: "xcodebuild", Err: err}
	}

	schemes, err := parseSchemes(out)
	if err != nil {
		return nil, fmt.Errorf("parse scheme list for %s: %w", proj.Name, err)
	}
	if len(schemes) == 0 {
		return nil, &NoSchemesError{Project: proj.Name}
	}
	return schemes, nil
}

func parseSchemes(data []byte) ([]string, error) {
	var list schemeList
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, err
	}
	if len(list.Workspace.Schemes) > 0 {
		return list.Workspace.Schemes, nil
	}
	return list.Project.Schemes, nil
}
