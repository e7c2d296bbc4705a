package ledger

import (
	"errors"
	"fmt"
	"maps"
)

// ErrUnknownStatus is returned when a persisted status string is not recognised.
var ErrUnknownStatus = errors.New("unknown build status")

// BuildStatus is the state of one target for one release version.
//
// Waiting (or absent) -> Started -> Success | Failed. Failed goes back to
// Started on the next attempt; Success is final for the ledger file.
type BuildStatus string

const (
	Waiting BuildStatus = "Waiting"
	Started BuildStatus = "Started"
	Success BuildStatus = "Success"
	Failed  BuildStatus = "Failed"
)

// ParseBuildStatus validates a persisted status string.
func ParseBuildStatus(s string) (BuildStatus, error) {
	switch BuildStatus(s) {
	case Waiting, Started, Success, Failed:
		return BuildStatus(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
	}
}

// VersionStatus is the ledger record of one release version.
type VersionStatus struct {
	Published bool                   `json:"published"`
	Builds    map[string]BuildStatus `json:"build_names"`
}

func newVersionStatus() *VersionStatus {
	return &VersionStatus{Builds: make(map[string]BuildStatus)}
}

func (vs *VersionStatus) clone() VersionStatus {
	return VersionStatus{Published: vs.Published, Builds: maps.Clone(vs.Builds)}
}
