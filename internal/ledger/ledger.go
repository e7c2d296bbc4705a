package ledger

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"slices"
	"sync"

	"github.com/specialistvlad/releasegrid/internal/fsutil"
)

// Ledger is the in-memory view of the status file. Mutations only touch
// memory; Save persists the whole ledger. The mutex exists for concurrent
// readers such as the status endpoint; builds themselves run sequentially.
type Ledger struct {
	mu       sync.RWMutex
	path     string
	codec    Codec
	versions map[string]*VersionStatus
}

// New returns an empty ledger persisted at path. The codec is chosen from the
// file extension: .yaml/.yml use YAML, anything else HCL.
func New(path string) *Ledger {
	return &Ledger{
		path:     path,
		codec:    CodecFor(path),
		versions: make(map[string]*VersionStatus),
	}
}

// Path returns the file the ledger is persisted to.
func (l *Ledger) Path() string { return l.path }

// Read replaces the in-memory state with the persisted file. A missing file
// is not an error and leaves the ledger empty. On a decode error the ledger
// is also left empty and the error is returned so the caller can report it
// and carry on.
func (l *Ledger) Read() error {
	data, err := os.ReadFile(l.path)
	if err != nil {
		l.reset(nil)
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read status file %s: %w", l.path, err)
	}

	versions, err := l.codec.Decode(data, l.path)
	if err != nil {
		l.reset(nil)
		return fmt.Errorf("failed to decode status file %s: %w", l.path, err)
	}
	l.reset(versions)
	return nil
}

func (l *Ledger) reset(versions map[string]*VersionStatus) {
	if versions == nil {
		versions = make(map[string]*VersionStatus)
	}
	l.mu.Lock()
	l.versions = versions
	l.mu.Unlock()
}

// Save persists the ledger with an atomic file replace.
func (l *Ledger) Save() error {
	l.mu.RLock()
	data, err := l.codec.Encode(l.versions)
	l.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to encode status file: %w", err)
	}
	if err := fsutil.WriteFileAtomic(l.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write status file %s: %w", l.path, err)
	}
	return nil
}

// Status returns the recorded status, or Waiting when nothing is recorded.
func (l *Ledger) Status(buildID, version string) BuildStatus {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if vs, ok := l.versions[version]; ok {
		if s, ok := vs.Builds[buildID]; ok {
			return s
		}
	}
	return Waiting
}

// NeedsCompile reports whether the target still has to be built: true unless
// its recorded status is exactly Success.
func (l *Ledger) NeedsCompile(buildID, version string) bool {
	return l.Status(buildID, version) != Success
}

// ClearMissingTargets drops the entries of version whose build-identifier is
// not in validIDs and returns the removed identifiers, sorted.
func (l *Ledger) ClearMissingTargets(version string, validIDs []string) []string {
	valid := make(map[string]struct{}, len(validIDs))
	for _, id := range validIDs {
		valid[id] = struct{}{}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	vs, ok := l.versions[version]
	if !ok {
		return nil
	}
	var removed []string
	for id := range vs.Builds {
		if _, keep := valid[id]; !keep {
			removed = append(removed, id)
			delete(vs.Builds, id)
		}
	}
	slices.Sort(removed)
	return removed
}

func (l *Ledger) set(buildID, version string, status BuildStatus) {
	l.mu.Lock()
	defer l.mu.Unlock()
	vs, ok := l.versions[version]
	if !ok {
		vs = newVersionStatus()
		l.versions[version] = vs
	}
	vs.Builds[buildID] = status
}

// Start records that a build has been launched.
func (l *Ledger) Start(buildID, version string) { l.set(buildID, version, Started) }

// Succeed records a successful build.
func (l *Ledger) Succeed(buildID, version string) { l.set(buildID, version, Success) }

// Fail records a failed build.
func (l *Ledger) Fail(buildID, version string) { l.set(buildID, version, Failed) }

// AllClear reports whether every recorded status of version is Success. It is
// vacuously true for a version with no entries, so callers must also check
// that something was actually built.
func (l *Ledger) AllClear(version string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	vs, ok := l.versions[version]
	if !ok {
		return true
	}
	for _, s := range vs.Builds {
		if s != Success {
			return false
		}
	}
	return true
}

// IsPublished reports whether version has been published.
func (l *Ledger) IsPublished(version string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	vs, ok := l.versions[version]
	return ok && vs.Published
}

// Publish marks version as published. Calling it again is a no-op.
func (l *Ledger) Publish(version string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	vs, ok := l.versions[version]
	if !ok {
		vs = newVersionStatus()
		l.versions[version] = vs
	}
	vs.Published = true
}

// Snapshot returns a deep copy of the ledger contents.
func (l *Ledger) Snapshot() map[string]VersionStatus {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make(map[string]VersionStatus, len(l.versions))
	for v, vs := range l.versions {
		out[v] = vs.clone()
	}
	return out
}

// Versions returns the recorded version strings, sorted.
func (l *Ledger) Versions() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Sorted(maps.Keys(l.versions))
}
