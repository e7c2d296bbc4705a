package orchestrator

import (
	"context"

	"github.com/specialistvlad/releasegrid/internal/target"
)

// Executor launches the external build for a single target.
type Executor interface {
	// Start spawns the build. An error means the process could not be
	// started at all.
	Start(ctx context.Context, t *target.Target, version string) (Build, error)
}

// Build is a running build process.
type Build interface {
	// Wait blocks until the process exits. ok reports a successful exit; err
	// is reserved for failures to observe the process.
	Wait() (ok bool, err error)
}

// Packager turns the output of a successful build into a release archive.
type Packager interface {
	Package(ctx context.Context, t *target.Target, version string) (archive string, err error)
	// Archives lists the archives on disk for version restricted to buildIDs,
	// including ones produced by earlier runs.
	Archives(version string, buildIDs []string) ([]string, error)
}

// Publisher makes a fully built version available.
type Publisher interface {
	Publish(ctx context.Context, r Release) error
}

// Notifier receives progress events. Delivery is best effort.
type Notifier interface {
	Notify(ctx context.Context, e Event)
}

// Release describes what is handed to a Publisher.
type Release struct {
	Version  string
	BuildIDs []string
	Archives []string
}
