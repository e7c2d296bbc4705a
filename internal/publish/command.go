package publish

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/specialistvlad/releasegrid/internal/ctxlog"
	"github.com/specialistvlad/releasegrid/internal/orchestrator"
)

// DefaultCommand publishes the crate to its registry.
const DefaultCommand = "cargo publish"

// ErrEmptyCommand is returned for a blank command line.
var ErrEmptyCommand = errors.New("publish command is empty")

// Command runs an external program in Dir. The program sees RELEASE_VERSION
// and RELEASE_ARCHIVES (space separated) in its environment.
type Command struct {
	Dir    string
	Argv   []string
	Stdout io.Writer
	Stderr io.Writer
}

// NewCommand splits cmdline on whitespace.
func NewCommand(dir, cmdline string, stdout, stderr io.Writer) (*Command, error) {
	argv := strings.Fields(cmdline)
	if len(argv) == 0 {
		return nil, ErrEmptyCommand
	}
	return &Command{Dir: dir, Argv: argv, Stdout: stdout, Stderr: stderr}, nil
}

// Publish implements orchestrator.Publisher.
func (c *Command) Publish(ctx context.Context, r orchestrator.Release) error {
	cmd := exec.CommandContext(ctx, c.Argv[0], c.Argv[1:]...)
	cmd.Dir = c.Dir
	cmd.Env = append(os.Environ(),
		"RELEASE_VERSION="+r.Version,
		"RELEASE_ARCHIVES="+strings.Join(r.Archives, " "),
	)
	cmd.Stdout = c.Stdout
	cmd.Stderr = c.Stderr

	ctxlog.FromContext(ctx).Info("Running publish command.", "command", strings.Join(c.Argv, " "))
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", strings.Join(c.Argv, " "), err)
	}
	return nil
}
