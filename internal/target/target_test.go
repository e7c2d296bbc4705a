package target

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAndTriple(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		os     OS
		arch   Arch
		triple string
	}{
		{Linux, Aarch64, "aarch64-unknown-linux-gnu"},
		{Linux, Aarch64Musl, "aarch64-unknown-linux-musl"},
		{Linux, Armv7h, "armv7-unknown-linux-gnueabihf"},
		{Linux, Armv7hMusl, "armv7-unknown-linux-musleabihf"},
		{Linux, Armh, "arm-unknown-linux-gnueabihf"},
		{Linux, ArmhMusl, "arm-unknown-linux-musleabihf"},
		{Linux, Amd64, "x86_64-unknown-linux-gnu"},
		{Linux, Amd64Musl, "x86_64-unknown-linux-musl"},
		{Windows, Amd64, "x86_64-pc-windows-gnu"},
		{Windows, I686, "i686-pc-windows-gnu"},
		{Mac, Amd64, "x86_64-apple-darwin"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.triple, func(t *testing.T) {
			t.Parallel()
			tgt, err := New(tc.os, tc.arch, "")
			require.NoError(t, err)
			assert.Equal(t, tc.triple, tgt.Triple())
			assert.Equal(t, tc.triple, tgt.ID())
		})
	}
	assert.Len(t, Platforms(), len(testCases))
}

func TestNewRejectsUnsupportedPairs(t *testing.T) {
	t.Parallel()

	for _, p := range []Platform{
		{Windows, Aarch64},
		{Windows, Amd64Musl},
		{Mac, I686},
		{Mac, Aarch64},
		{Linux, I686},
		{OS(42), Amd64},
	} {
		_, err := New(p.OS, p.Arch, "")
		require.Error(t, err, p.String())
		require.True(t, errors.Is(err, ErrInvalidTarget))
	}
}

func TestUnsupportedPlatformRendersUnknown(t *testing.T) {
	t.Parallel()
	assert.Equal(t, UnknownTriple, Platform{Mac, I686}.Triple())
	assert.Equal(t, UnknownTriple, Platform{}.Triple())
}

func TestIDWithBuildName(t *testing.T) {
	t.Parallel()
	tgt, err := New(Linux, Amd64, "static")
	require.NoError(t, err)
	assert.Equal(t, "x86_64-unknown-linux-gnu", tgt.Triple())
	assert.Equal(t, "x86_64-unknown-linux-gnu-static", tgt.ID())
	assert.Equal(t, "static", tgt.BuildName())
}

func TestNewRejectsUnsafeBuildNames(t *testing.T) {
	t.Parallel()
	for _, name := range []string{"x/../../../../src", "gui/x", `gui\x`, "..", ".hidden", "a..b", "line\nbreak"} {
		tgt, err := New(Linux, Amd64, name)
		assert.Nil(t, tgt, name)
		assert.ErrorIs(t, err, ErrInvalidBuildName, name)
	}

	for _, name := range []string{"static", "v2.1", "with space", "ünïcode", `quote"d`} {
		tgt, err := New(Linux, Amd64, name)
		require.NoError(t, err, name)
		assert.Equal(t, "x86_64-unknown-linux-gnu-"+name, tgt.ID())
	}
}

func TestOverridesAccumulate(t *testing.T) {
	t.Parallel()
	tgt, err := New(Windows, I686, "")
	require.NoError(t, err)

	tgt.AddLibs("/opt/a", "/opt/b")
	tgt.AddLibs("/opt/a")
	tgt.AddEnv(map[string]string{"CC": "gcc", "AR": "ar"})
	tgt.AddEnv(map[string]string{"CC": "clang"})

	assert.Equal(t, []string{"/opt/a", "/opt/b", "/opt/a"}, tgt.NativeDirs())
	assert.Equal(t, map[string]string{"CC": "clang", "AR": "ar"}, tgt.Env())
	assert.Equal(t, "-L native=/opt/a -L native=/opt/b -L native=/opt/a", tgt.LinkerFlags())

	// Accessors hand out copies.
	tgt.Env()["CC"] = "mutated"
	tgt.NativeDirs()[0] = "mutated"
	assert.Equal(t, "clang", tgt.Env()["CC"])
	assert.Equal(t, "/opt/a", tgt.NativeDirs()[0])
}

func TestLinkerFlagsEmpty(t *testing.T) {
	t.Parallel()
	tgt, err := New(Mac, Amd64, "")
	require.NoError(t, err)
	assert.Equal(t, "", tgt.LinkerFlags())
}

func TestParseNames(t *testing.T) {
	t.Parallel()

	os, err := ParseOS(" Linux ")
	require.NoError(t, err)
	assert.Equal(t, Linux, os)

	arch, err := ParseArch("ARMV7H-musl")
	require.NoError(t, err)
	assert.Equal(t, Armv7hMusl, arch)

	for alias, want := range map[string]Arch{
		"armv7hmusl": Armv7hMusl,
		"armhmusl":   ArmhMusl,
		"AMD64MUSL":  Amd64Musl,
	} {
		arch, err := ParseArch(alias)
		require.NoError(t, err, alias)
		assert.Equal(t, want, arch, alias)
	}

	_, err = ParseOS("plan9")
	assert.ErrorIs(t, err, ErrUnknownOS)

	_, err = ParseArch("sparc")
	assert.ErrorIs(t, err, ErrUnknownArch)

	for o := range osNames {
		parsed, err := ParseOS(o.String())
		require.NoError(t, err)
		assert.Equal(t, o, parsed)
	}
	for a := range archNames {
		parsed, err := ParseArch(a.String())
		require.NoError(t, err)
		assert.Equal(t, a, parsed)
	}
}

func TestIDs(t *testing.T) {
	t.Parallel()
	a, _ := New(Linux, Amd64, "")
	b, _ := New(Linux, Amd64, "gui")
	assert.Equal(t, []string{"x86_64-unknown-linux-gnu", "x86_64-unknown-linux-gnu-gui"}, IDs([]*Target{a, b}))
}
