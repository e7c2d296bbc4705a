package cargo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"os/exec"
	"slices"
	"strings"

	"github.com/specialistvlad/releasegrid/internal/ctxlog"
	"github.com/specialistvlad/releasegrid/internal/orchestrator"
	"github.com/specialistvlad/releasegrid/internal/target"
)

// staticFlags is prepended to every target's linker flags.
const staticFlags = "-C target-feature=+crt-static"

// Executor runs `cargo build --target <triple> --release` in ProjectDir.
type Executor struct {
	ProjectDir string
	// Program is the cargo binary; defaults to "cargo" on PATH.
	Program string
	Stdout  io.Writer
	Stderr  io.Writer
}

// NewExecutor returns an executor that streams cargo's output to stdout and
// stderr.
func NewExecutor(projectDir string, stdout, stderr io.Writer) *Executor {
	return &Executor{ProjectDir: projectDir, Program: "cargo", Stdout: stdout, Stderr: stderr}
}

// Start implements orchestrator.Executor.
func (e *Executor) Start(ctx context.Context, t *target.Target, version string) (orchestrator.Build, error) {
	program := e.Program
	if program == "" {
		program = "cargo"
	}
	cmd := exec.CommandContext(ctx, program, "build", "--target", t.Triple(), "--release")
	cmd.Dir = e.ProjectDir
	cmd.Env = Environ(os.Environ(), t, version)
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr

	ctxlog.FromContext(ctx).Debug("Spawning cargo.", "args", cmd.Args, "dir", cmd.Dir)
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return &build{cmd: cmd}, nil
}

// Environ returns base extended with the build variables for t. Later
// entries win, so target overrides take precedence over RUSTFLAGS and the
// inherited environment.
func Environ(base []string, t *target.Target, version string) []string {
	rustflags := staticFlags
	if flags := t.LinkerFlags(); flags != "" {
		rustflags += " " + flags
	}

	env := slices.Clone(base)
	env = append(env,
		"RUSTFLAGS="+rustflags,
		"RELEASE_VERSION="+version,
	)
	overrides := t.Env()
	for _, k := range slices.Sorted(maps.Keys(overrides)) {
		env = append(env, k+"="+overrides[k])
	}
	return env
}

type build struct {
	cmd *exec.Cmd
}

func (b *build) Wait() (bool, error) {
	err := b.cmd.Wait()
	if err == nil {
		return true, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return false, nil
	}
	return false, fmt.Errorf("cargo %s: %w", strings.Join(b.cmd.Args[1:], " "), err)
}
