package testutil

import (
	"testing"

	"github.com/specialistvlad/releasegrid/internal/target"
	"github.com/stretchr/testify/require"
)

// MustTarget constructs a target or fails the test.
func MustTarget(t *testing.T, os target.OS, arch target.Arch, buildName string) *target.Target {
	t.Helper()
	tgt, err := target.New(os, arch, buildName)
	require.NoError(t, err)
	return tgt
}
