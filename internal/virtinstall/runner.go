package virtinstall

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/alessio/shellescape"
)

// ErrCommandFailed is returned when virt-install exits with a non-zero status.
var ErrCommandFailed = errors.New("virt-install failed")

// Runner executes an argument vector.
type Runner interface {
	Run(ctx context.Context, argv []string) error
}

// SudoRunner runs the vector under sudo, attached to the caller's terminal so
// virt-install can show the installer console.
type SudoRunner struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewSudoRunner returns a runner wired to the process's standard streams.
func NewSudoRunner() *SudoRunner {
	return &SudoRunner{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

// Run executes "sudo argv...". Any non-zero exit is reported as ErrCommandFailed.
func (r *SudoRunner) Run(ctx context.Context, argv []string) error {
	if len(argv) == 0 {
		return fmt.Errorf("empty command")
	}

	cmd := exec.CommandContext(ctx, "sudo", argv...)
	cmd.Stdin = r.Stdin
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("%w: %s exited with status %d", ErrCommandFailed, argv[0], exitErr.ExitCode())
		}
		return fmt.Errorf("failed to execute sudo %s: %w", argv[0], err)
	}
	return nil
}

// FormatCommand renders argv as a shell-quoted command line.
func FormatCommand(argv []string) string {
	return shellescape.QuoteCommand(argv)
}
