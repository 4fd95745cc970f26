// Package project discovers buildable project descriptors inside a
// checked-out working copy.
package project

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// Descriptor is one buildable project found by a scan. Aggregate
// descriptors (workspaces) group sub-projects and take precedence over
// plain project descriptors when both are present.
type Descriptor struct {
	Name      string
	Path      string
	Aggregate bool
}

const (
	workspaceSuffix = ".xcworkspace"
	projectSuffix   = ".xcodeproj"
)

// skipDirs are pruned without descending: dependency caches, VCS
// metadata, and build output. Build output in particular often contains
// copies of project files that must not be mistaken for source.
var skipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"Pods":         true,
	"Carthage":     true,
	"DerivedData":  true,
	"build":        true,
}

// Locate walks the tree under root and returns its buildable project
// descriptors. If at least one aggregate descriptor exists, only
// aggregates are returned; otherwise all plain projects are. Unreadable
// subdirectories are skipped rather than failing the scan.
func Locate(root string) ([]Descriptor, error) {
	var aggregates, projects []Descriptor

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return fmt.Errorf("failed to scan %s: %w", root, err)
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}

		name := d.Name()
		if path != root && skipDirs[name] {
			return fs.SkipDir
		}

		switch {
		case strings.HasSuffix(name, workspaceSuffix):
			aggregates = append(aggregates, Descriptor{
				Name:      strings.TrimSuffix(name, workspaceSuffix),
				Path:      path,
				Aggregate: true,
			})
			// Aggregates are scan leaves; their contents are never
			// searched for nested projects.
			return fs.SkipDir
		case strings.HasSuffix(name, projectSuffix):
			projects = append(projects, Descriptor{
				Name: strings.TrimSuffix(name, projectSuffix),
				Path: path,
			})
			// Project bundles embed an internal project.xcworkspace
			// that must not surface as an aggregate.
			return fs.SkipDir
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := projects
	if len(aggregates) > 0 {
		result = aggregates
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}
