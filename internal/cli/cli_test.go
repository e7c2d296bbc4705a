package cli

import (
	"bytes"
	"testing"

	"github.com/specialistvlad/releasegrid/internal/app"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	t.Parallel()
	cfg, exit, err := Parse(nil, &bytes.Buffer{})

	require.NoError(t, err)
	assert.False(t, exit)
	assert.Equal(t, &app.Config{
		ProjectDir:      ".",
		ReleaseConfig:   "Release.hcl",
		StatusFile:      "Status.hcl",
		PublishCommand:  "cargo publish",
		NotifyNamespace: "/",
		LogFormat:       "text",
		LogLevel:        "info",
	}, cfg)
}

func TestParseFlags(t *testing.T) {
	t.Parallel()
	cfg, _, err := Parse([]string{
		"-r", "rel.hcl", "-s", "status.yaml", "-f", "-p", "-verbose",
		"-log-format", "JSON", "-version", "1.2.3-rc.1", "-name", "tool",
		"-s3-bucket", "releases", "-s3-prefix", "bin", "-publish-cmd", "",
		"-status-port", "8080", "-upgrade-config",
		"-notify-url", "wss://events.example.com", "-notify-insecure",
		"/src/tool",
	}, &bytes.Buffer{})

	require.NoError(t, err)
	assert.Equal(t, "/src/tool", cfg.ProjectDir)
	assert.Equal(t, "rel.hcl", cfg.ReleaseConfig)
	assert.Equal(t, "status.yaml", cfg.StatusFile)
	assert.True(t, cfg.ForceCompile)
	assert.True(t, cfg.Publish)
	assert.True(t, cfg.UpgradeConfig)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "1.2.3-rc.1", cfg.Version)
	assert.Equal(t, "tool", cfg.Name)
	assert.Equal(t, "releases", cfg.S3Bucket)
	assert.Equal(t, "bin", cfg.S3Prefix)
	assert.Empty(t, cfg.PublishCommand)
	assert.Equal(t, 8080, cfg.StatusPort)
	assert.Equal(t, "wss://events.example.com", cfg.NotifyURL)
	assert.True(t, cfg.NotifyInsecure)
}

func TestParseHelp(t *testing.T) {
	t.Parallel()
	out := &bytes.Buffer{}
	cfg, exit, err := Parse([]string{"-h"}, out)

	require.NoError(t, err)
	assert.True(t, exit)
	assert.Nil(t, cfg)
	assert.Contains(t, out.String(), "Usage:")
}

func TestParseErrors(t *testing.T) {
	t.Parallel()
	tests := map[string][]string{
		"unknown flag":     {"-nope"},
		"bad log level":    {"-log-level", "loud"},
		"bad log format":   {"-log-format", "xml"},
		"loose version":    {"-version", "v1.2"},
		"negative port":    {"-status-port", "-1"},
		"two project dirs": {"a", "b"},
		"dir twice":        {"-project-dir", "a", "b"},
	}
	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, exit, err := Parse(args, &bytes.Buffer{})
			require.Error(t, err)
			assert.False(t, exit)
			var exitErr *ExitError
			require.ErrorAs(t, err, &exitErr)
			assert.Equal(t, 2, exitErr.Code)
		})
	}
}
