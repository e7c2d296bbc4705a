package artifact

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/releasegrid/internal/ctxlog"
	"github.com/specialistvlad/releasegrid/internal/fsutil"
	"github.com/specialistvlad/releasegrid/internal/target"
)

var (
	// ErrBinaryNotFound is returned when the build left no binary to package.
	ErrBinaryNotFound = errors.New("build binary not found")
	// ErrUnsafeBuildID is returned when a build-identifier would stage outside
	// the version directory.
	ErrUnsafeBuildID = errors.New("build-identifier is not a plain file name")
)

const archiveExt = ".zip"

// Bundler lays out release archives as
// <ReleasePath>/<Name>/<version>/<build-id>.zip, staging each one in a
// sibling directory named after the build-identifier.
type Bundler struct {
	// ProjectDir is the cargo project root; relative paths resolve against it.
	ProjectDir    string
	ReleasePath   string
	Name          string
	IncludedFiles []string
}

// VersionDir returns the directory holding the archives of version.
func (b *Bundler) VersionDir(version string) string {
	base := b.ReleasePath
	if !filepath.IsAbs(base) {
		base = filepath.Join(b.ProjectDir, base)
	}
	return filepath.Join(base, b.Name, version)
}

// BinaryPath returns where cargo leaves the release binary for t.
func (b *Bundler) BinaryPath(t *target.Target) string {
	name := b.Name
	if t.Platform().OS == target.Windows {
		name += ".exe"
	}
	return filepath.Join(b.ProjectDir, "target", t.Triple(), "release", name)
}

// Package stages t's binary and the included files and zips them.
func (b *Bundler) Package(ctx context.Context, t *target.Target, version string) (string, error) {
	logger := ctxlog.FromContext(ctx)
	versionDir := b.VersionDir(version)
	staging, err := stagingDir(versionDir, t.ID())
	if err != nil {
		return "", err
	}
	archive := staging + archiveExt

	binary := b.BinaryPath(t)
	if !fsutil.Exists(binary) {
		return "", fmt.Errorf("%w: %s", ErrBinaryNotFound, binary)
	}

	if err := os.RemoveAll(staging); err != nil {
		return "", fmt.Errorf("failed to clear staging directory: %w", err)
	}
	if err := fsutil.CopyFile(binary, filepath.Join(staging, filepath.Base(binary))); err != nil {
		return "", fmt.Errorf("failed to stage binary: %w", err)
	}
	for _, rel := range b.IncludedFiles {
		src := rel
		if !filepath.IsAbs(src) {
			src = filepath.Join(b.ProjectDir, rel)
		}
		dst := filepath.Join(staging, includedName(rel))
		if err := fsutil.CopyFile(src, dst); err != nil {
			return "", fmt.Errorf("failed to stage included file %s: %w", rel, err)
		}
	}
	logger.Debug("Build staged.", "dir", staging, "included_files", len(b.IncludedFiles))

	if err := Zip(staging, archive); err != nil {
		return "", err
	}
	return archive, nil
}

// stagingDir joins id onto versionDir, refusing ids that are not a single
// path element. Staging directories are removed before use.
func stagingDir(versionDir, id string) (string, error) {
	if id == "" || id == "." || id == ".." || filepath.Base(id) != id || strings.ContainsAny(id, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrUnsafeBuildID, id)
	}
	staging := filepath.Join(versionDir, id)
	if filepath.Dir(staging) != filepath.Clean(versionDir) {
		return "", fmt.Errorf("%w: %q", ErrUnsafeBuildID, id)
	}
	return staging, nil
}

// includedName keeps relative paths but flattens absolute or escaping ones to
// their base name so nothing is written outside the staging directory.
func includedName(rel string) string {
	clean := filepath.Clean(rel)
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return filepath.Base(clean)
	}
	return clean
}

// Archives returns the archives of version that belong to buildIDs, sorted by
// name. Archives of build-identifiers no longer configured are ignored.
func (b *Bundler) Archives(version string, buildIDs []string) ([]string, error) {
	files, err := fsutil.FilesByExtension(b.VersionDir(version), archiveExt)
	if err != nil {
		return nil, err
	}
	wanted := make(map[string]struct{}, len(buildIDs))
	for _, id := range buildIDs {
		wanted[id] = struct{}{}
	}
	var out []string
	for _, f := range files {
		if _, ok := wanted[strings.TrimSuffix(filepath.Base(f), archiveExt)]; ok {
			out = append(out, f)
		}
	}
	return out, nil
}
