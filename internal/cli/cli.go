package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/specialistvlad/releasegrid/internal/app"
	"github.com/specialistvlad/releasegrid/internal/publish"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	flagSet := flag.NewFlagSet("releasegrid", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
releasegrid - Cross-compiles a cargo project for every configured target,
packages each build and publishes the version once all of them succeed.
Interrupted or failed runs resume where they stopped.

Usage:
  releasegrid [options] [PROJECT_DIR]

Arguments:
  PROJECT_DIR
    Cargo project root (default: current directory).

Options:
`)
		flagSet.PrintDefaults()
	}

	var cfg app.Config
	var verbose bool
	for _, name := range []string{"release-config", "r"} {
		flagSet.StringVar(&cfg.ReleaseConfig, name, "Release.hcl", "Release configuration `file`.")
	}
	for _, name := range []string{"status-file", "s"} {
		flagSet.StringVar(&cfg.StatusFile, name, "Status.hcl", "Status ledger `file`; a .yaml or .yml extension selects YAML.")
	}
	for _, name := range []string{"force", "f"} {
		flagSet.BoolVar(&cfg.ForceCompile, name, false, "Rebuild targets that already succeeded.")
	}
	for _, name := range []string{"publish", "p"} {
		flagSet.BoolVar(&cfg.Publish, name, false, "Publish the version once every target is built.")
	}
	flagSet.BoolVar(&verbose, "verbose", false, "Shorthand for -log-level=debug.")
	flagSet.StringVar(&cfg.LogLevel, "log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	flagSet.StringVar(&cfg.LogFormat, "log-format", "text", "Log output format. Options: 'text' or 'json'.")
	flagSet.StringVar(&cfg.Name, "name", "", "Package name (default: from Cargo.toml).")
	flagSet.StringVar(&cfg.Version, "version", "", "Release version (default: from Cargo.toml).")
	flagSet.StringVar(&cfg.ProjectDir, "project-dir", "", "Cargo project root.")
	flagSet.BoolVar(&cfg.UpgradeConfig, "upgrade-config", false, "Rewrite a release config in an older schema to the current one.")
	flagSet.StringVar(&cfg.PublishCommand, "publish-cmd", publish.DefaultCommand, "Command run on publish; empty disables it.")
	flagSet.StringVar(&cfg.S3Bucket, "s3-bucket", "", "Upload archives to this S3 bucket on publish.")
	flagSet.StringVar(&cfg.S3Prefix, "s3-prefix", "", "Key prefix for S3 uploads.")
	flagSet.StringVar(&cfg.S3Region, "s3-region", "", "AWS region for S3 uploads.")
	flagSet.StringVar(&cfg.S3Endpoint, "s3-endpoint", "", "Custom S3 endpoint (MinIO, LocalStack).")
	flagSet.StringVar(&cfg.NotifyURL, "notify-url", "", "socket.io server receiving progress events.")
	flagSet.StringVar(&cfg.NotifyNamespace, "notify-namespace", "/", "socket.io namespace for progress events.")
	flagSet.BoolVar(&cfg.NotifyInsecure, "notify-insecure", false, "Skip TLS certificate verification for -notify-url.")
	flagSet.IntVar(&cfg.StatusPort, "status-port", 0, "Port for the HTTP status server. 0 is disabled.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	if flagSet.NArg() > 1 {
		return nil, false, &ExitError{Code: 2, Message: "at most one PROJECT_DIR may be given"}
	}
	if flagSet.NArg() == 1 {
		if cfg.ProjectDir != "" {
			return nil, false, &ExitError{Code: 2, Message: "PROJECT_DIR given both as argument and -project-dir"}
		}
		cfg.ProjectDir = flagSet.Arg(0)
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	if verbose {
		cfg.LogLevel = "debug"
	}

	config, err := app.NewConfig(cfg)
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	return config, false, nil
}
