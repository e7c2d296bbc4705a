package hcl

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/specialistvlad/releasegrid/internal/config"
	"github.com/specialistvlad/releasegrid/internal/ctxlog"
	"github.com/stretchr/testify/require"
)

const currentDoc = `
release_path   = "releases"
included_files = ["LICENSE", "README.md"]

target "linux" "amd64" {
  libs = ["/usr/local/lib"]
  env  = { CC = "gcc" }
}

target "linux" "amd64" {
  build_name = "musl"
  libs       = ["/opt/musl/lib", "/opt/extra"]
}

target "windows" "i686" {}
`

const v1Doc = `
release_path   = "releases"
included_files = ["LICENSE", "README.md", "CHANGELOG.md"]

platform "linux" "aarch64" {
  libs = ["/usr/aarch64/lib"]
  env  = { PKG_CONFIG_ALLOW_CROSS = "1" }
}

platform "mac" "amd64" {}
`

const v0Doc = `
release_path = "out"
license      = "LICENSE"
readme       = "README.md"

platform "linux" "amd64" {
  libs = []
  env  = {}
}
`

var equateEmpty = cmpopts.EquateEmpty()

func parse(t *testing.T, src string) (*config.Document, config.State, error) {
	t.Helper()
	return NewLoader().Parse(ctxlog.Discard(context.Background()), []byte(src), "Release.hcl")
}

func TestParseCurrentSchema(t *testing.T) {
	t.Parallel()

	doc, state, err := parse(t, currentDoc)
	require.NoError(t, err)
	require.Equal(t, config.Current, state)

	want := &config.Document{
		ReleasePath:   "releases",
		IncludedFiles: []string{"LICENSE", "README.md"},
		Config: map[string]map[string][]config.Override{
			"linux": {
				"amd64": {
					{Libs: []string{"/usr/local/lib"}, Env: map[string]string{"CC": "gcc"}},
					{BuildName: "musl", Libs: []string{"/opt/musl/lib", "/opt/extra"}},
				},
			},
			"windows": {"i686": {{}}},
		},
	}
	if diff := cmp.Diff(want, doc, equateEmpty); diff != "" {
		t.Errorf("document mismatch (-want +got):\n%s", diff)
	}
}

func TestParseUpgradesV1(t *testing.T) {
	t.Parallel()

	doc, state, err := parse(t, v1Doc)
	require.NoError(t, err)
	require.Equal(t, config.Upgraded, state)

	want := &config.Document{
		ReleasePath:   "releases",
		IncludedFiles: []string{"LICENSE", "README.md", "CHANGELOG.md"},
		Config: map[string]map[string][]config.Override{
			"linux": {"aarch64": {{Libs: []string{"/usr/aarch64/lib"}, Env: map[string]string{"PKG_CONFIG_ALLOW_CROSS": "1"}}}},
			"mac":   {"amd64": {{}}},
		},
	}
	if diff := cmp.Diff(want, doc, equateEmpty); diff != "" {
		t.Errorf("document mismatch (-want +got):\n%s", diff)
	}
}

func TestParseUpgradesV0ThroughV1(t *testing.T) {
	t.Parallel()

	doc, state, err := parse(t, v0Doc)
	require.NoError(t, err)
	require.Equal(t, config.Upgraded, state)

	want := &config.Document{
		ReleasePath:   "out",
		IncludedFiles: []string{"README.md", "LICENSE"},
		Config: map[string]map[string][]config.Override{
			"linux": {"amd64": {{}}},
		},
	}
	if diff := cmp.Diff(want, doc, equateEmpty); diff != "" {
		t.Errorf("document mismatch (-want +got):\n%s", diff)
	}
}

func TestParseReportsCurrentSchemaError(t *testing.T) {
	t.Parallel()

	_, _, err := parse(t, `
release_path   = "releases"
included_files = ["LICENSE"]
unexpected     = true
`)
	require.ErrorIs(t, err, config.ErrInvalidDocument)
	require.Contains(t, err.Error(), "unexpected")
	require.NotContains(t, err.Error(), "No earlier configuration schema")
}

func TestParseRejectsDuplicatePlatformInOldSchemas(t *testing.T) {
	t.Parallel()

	_, _, err := parse(t, `
release_path   = "releases"
included_files = []

platform "linux" "amd64" {}
platform "linux" "amd64" {}
`)
	require.ErrorIs(t, err, config.ErrInvalidDocument)
}

func TestParseSyntaxError(t *testing.T) {
	t.Parallel()

	_, _, err := parse(t, `release_path = `)
	require.ErrorIs(t, err, config.ErrInvalidDocument)
}

func TestParseRejectsEmptyReleasePath(t *testing.T) {
	t.Parallel()

	_, _, err := parse(t, `
release_path   = ""
included_files = []
`)
	require.ErrorIs(t, err, config.ErrInvalidDocument)
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, _, err := NewLoader().Load(ctxlog.Discard(context.Background()), filepath.Join(t.TempDir(), "nope.hcl"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestSaveRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := ctxlog.Discard(context.Background())
	loader := NewLoader()
	path := filepath.Join(t.TempDir(), "Release.hcl")

	for _, src := range []string{currentDoc, v1Doc, v0Doc} {
		original, _, err := loader.Parse(ctx, []byte(src), "in.hcl")
		require.NoError(t, err)

		require.NoError(t, loader.Save(ctx, path, original))
		reloaded, state, err := loader.Load(ctx, path)
		require.NoError(t, err)
		require.Equal(t, config.Current, state, "a saved document is always in the current schema")
		if diff := cmp.Diff(original, reloaded, equateEmpty); diff != "" {
			t.Errorf("round trip mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestSaveRejectsInvalidDocument(t *testing.T) {
	t.Parallel()

	err := NewLoader().Save(ctxlog.Discard(context.Background()), filepath.Join(t.TempDir(), "x.hcl"), &config.Document{})
	require.Error(t, err)
}

func TestEncodeIsDeterministic(t *testing.T) {
	t.Parallel()

	doc, _, err := parse(t, currentDoc)
	require.NoError(t, err)
	require.Equal(t, string(Encode(doc)), string(Encode(doc)))
	require.Contains(t, string(Encode(doc)), `target "windows" "i686"`)
}

func TestBaseVersionAcceptsNothing(t *testing.T) {
	t.Parallel()

	base := chain[len(chain)-1]
	_, diags := base.decode(nil)
	require.True(t, diags.HasErrors())
	require.Nil(t, base.upgrade)
}
