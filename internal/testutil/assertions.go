package testutil

import (
	"testing"

	"github.com/specialistvlad/releasegrid/internal/ledger"
	"github.com/stretchr/testify/require"
)

// AssertStatus checks the status the run left in the ledger for buildID.
func AssertStatus(t *testing.T, result *HarnessResult, version, buildID string, want ledger.BuildStatus) {
	t.Helper()
	require.NotNil(t, result.App)
	l := result.App.Ledger()
	require.NotNil(t, l, "run did not reach the ledger")
	require.Equal(t, want, l.Status(buildID, version), "status of %s@%s", buildID, version)
}

// AssertLogged checks that the captured log output contains substr.
func AssertLogged(t *testing.T, result *HarnessResult, substr string) {
	t.Helper()
	require.Contains(t, result.LogOutput, substr)
}
