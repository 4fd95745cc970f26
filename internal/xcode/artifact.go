package xcode

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"howett.net/plist"
)

// ArtifactNotFoundError indicates no .app bundle exists under the build
// products directory.
type ArtifactNotFoundError struct {
	Dir string
}

func (e *ArtifactNotFoundError) Error() string {
	return fmt.Sprintf("no .app bundle under %s", e.Dir)
}

// FindArtifact returns the first .app bundle under the Debug products
// directory for the platform. Only the Debug configuration output is
// searched, matching the configuration Build always uses.
func FindArtifact(derivedDataPath string, simulator bool) (string, error) {
	platformDir := "Debug-iphoneos"
	if simulator {
		platformDir = "Debug-iphonesimulator"
	}
	productsDir := filepath.Join(derivedDataPath, "Build", "Products", platformDir)

	entries, err := os.ReadDir(productsDir)
	if err != nil {
		return "", &ArtifactNotFoundError{Dir: productsDir}
	}
	for _, entry := range entries {
		if entry.IsDir() && strings.HasSuffix(entry.Name(), ".app") {
			return filepath.Join(productsDir, entry.Name()), nil
		}
	}
	return "", &ArtifactNotFoundError{Dir: productsDir}
}

// BundleIdentifier reads CFBundleIdentifier from the Info.plist embedded in
// the .app bundle. Both XML and binary plists are handled.
func BundleIdentifier(appPath string) (string, error) {
	data, err := os.ReadFile(filepath.Join(appPath, "Info.plist"))
	if err != nil {
		return "", fmt.Errorf("read Info.plist: %w", err)
	}

	var info struct {
		BundleIdentifier string `plist:"CFBundleIdentifier"`
	}
	if _, err := plist.Unmarshal(data, &info); err != nil {
		return "", fmt.Errorf("decode Info.plist: %w", err)
	}
	if info.BundleIdentifier == "" {
		return "", fmt.Errorf("Info.plist in %s has no CFBundleIdentifier", appPath)
	}
	return info.BundleIdentifier, nil
}
