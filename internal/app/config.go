package app

import (
	"errors"
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// Config holds everything one release run needs.
type Config struct {
	// ProjectDir is the cargo project root. Relative paths below resolve
	// against it.
	ProjectDir    string
	ReleaseConfig string
	StatusFile    string

	// Name and Version default to the [package] table of Cargo.toml.
	Name    string
	Version string

	ForceCompile  bool
	Publish       bool
	UpgradeConfig bool

	PublishCommand string
	S3Bucket       string
	S3Prefix       string
	S3Region       string
	S3Endpoint     string

	NotifyURL       string
	NotifyNamespace string
	NotifyInsecure  bool

	StatusPort int
	LogFormat  string
	LogLevel   string
}

// NewConfig validates cfg and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.ProjectDir == "" {
		cfg.ProjectDir = "."
	}
	if cfg.ReleaseConfig == "" {
		return nil, errors.New("release config path is required")
	}
	if cfg.StatusFile == "" {
		return nil, errors.New("status file path is required")
	}
	if cfg.Version != "" {
		if err := ValidateVersion(cfg.Version); err != nil {
			return nil, err
		}
	}

	switch cfg.LogFormat {
	case "":
		cfg.LogFormat = "text"
	case "text", "json":
	default:
		return nil, fmt.Errorf("invalid log-format %q: must be 'text' or 'json'", cfg.LogFormat)
	}
	switch cfg.LogLevel {
	case "":
		cfg.LogLevel = "info"
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid log-level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.LogLevel)
	}

	if cfg.StatusPort < 0 || cfg.StatusPort > 65535 {
		return nil, fmt.Errorf("invalid status port %d", cfg.StatusPort)
	}
	return &cfg, nil
}

// ValidateVersion requires a strict semantic version such as 1.2.3 or
// 1.2.3-rc.1.
func ValidateVersion(v string) error {
	if _, err := semver.StrictNewVersion(v); err != nil {
		return fmt.Errorf("invalid release version %q: %w", v, err)
	}
	return nil
}
