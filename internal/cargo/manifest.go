package cargo

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ManifestFile is the cargo package manifest name.
const ManifestFile = "Cargo.toml"

// ErrIncompleteManifest is returned when Cargo.toml lacks a package name or
// version.
var ErrIncompleteManifest = errors.New("package name or version missing from Cargo.toml")

// Manifest is the subset of Cargo.toml a release needs.
type Manifest struct {
	Package struct {
		Name    string `toml:"name"`
		Version string `toml:"version"`
	} `toml:"package"`
}

// ReadManifest reads Cargo.toml from projectDir.
func ReadManifest(projectDir string) (*Manifest, error) {
	path := filepath.Join(projectDir, ManifestFile)
	var m Manifest
	if _, err := toml.DecodeFile(path, &m); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if m.Package.Name == "" || m.Package.Version == "" {
		return nil, fmt.Errorf("%w: %s", ErrIncompleteManifest, path)
	}
	return &m, nil
}
