package printer

import (
	"context"
	"os/exec"
)

// CommandRunner executes an OS command and returns its combined output.
// Everything in this package that shells out goes through this seam so the
// port resolver, discovery and the dispatch chain are testable without a
// spooler present.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (string, error)
}

type execRunner struct{}

// NewExecRunner returns the os/exec backed CommandRunner.
func NewExecRunner() CommandRunner {
	return execRunner{}
}

func (execRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	return string(out), err
}
