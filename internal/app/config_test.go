package app

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigDefaults(t *testing.T) {
	t.Parallel()
	cfg, err := NewConfig(Config{ReleaseConfig: "Release.hcl", StatusFile: "Status.hcl"})

	require.NoError(t, err)
	assert.Equal(t, ".", cfg.ProjectDir)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestNewConfigRejects(t *testing.T) {
	t.Parallel()
	base := Config{ReleaseConfig: "Release.hcl", StatusFile: "Status.hcl"}
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"no release config", func(c *Config) { c.ReleaseConfig = "" }, "release config"},
		{"no status file", func(c *Config) { c.StatusFile = "" }, "status file"},
		{"loose version", func(c *Config) { c.Version = "1.0" }, "invalid release version"},
		{"prefixed version", func(c *Config) { c.Version = "v1.0.0" }, "invalid release version"},
		{"log level", func(c *Config) { c.LogLevel = "trace" }, "log-level"},
		{"log format", func(c *Config) { c.LogFormat = "xml" }, "log-format"},
		{"port", func(c *Config) { c.StatusPort = 70000 }, "status port"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := base
			tt.mutate(&cfg)
			_, err := NewConfig(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidateVersion(t *testing.T) {
	t.Parallel()
	for _, v := range []string{"0.1.0", "1.2.3-rc.1", "2.0.0+build.5"} {
		assert.NoError(t, ValidateVersion(v), v)
	}
	for _, v := range []string{"", "1", "1.2", "v1.2.3", "01.2.3"} {
		assert.Error(t, ValidateVersion(v), v)
	}
}

func TestNewLogger(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	logger := newLogger("warn", "json", &buf)
	logger.Info("hidden")
	logger.Warn("shown", "k", "v")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.True(t, strings.HasPrefix(out, "{"), out)
	assert.Contains(t, out, `"k":"v"`)
}

func TestNotifyOptionsCarryTLSSetting(t *testing.T) {
	t.Parallel()
	a := &App{config: &Config{NotifyURL: "wss://events.example.com", NotifyNamespace: "/ci", NotifyInsecure: true}}

	got := a.notifyOptions()

	assert.Equal(t, "wss://events.example.com", got.URL)
	assert.Equal(t, "/ci", got.Namespace)
	assert.True(t, got.InsecureSkipVerify)
}
