package out

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	installout "github.com/haarg/bcvi/internal/modules/install/port/out"
)

// ExecRunner shells out to the system ssh and scp. Failures carry the
// command line and whatever the tool printed, since that is usually the
// only clue about an unreachable host.
type ExecRunner struct{}

func NewExecRunner() installout.Runner {
	return &ExecRunner{}
}

func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		return commandError(name, args, err, out)
	}
	return nil
}

func (r *ExecRunner) Output(ctx context.Context, name string, args ...string) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", commandError(name, args, err, stderr.Bytes())
	}
	return stdout.String(), nil
}

func (r *ExecRunner) RunInput(ctx context.Context, input []byte, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = bytes.NewReader(input)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return commandError(name, args, err, out)
	}
	return nil
}

func commandError(name string, args []string, err error, output []byte) error {
	detail := string(bytes.TrimSpace(output))
	if detail == "" {
		return fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}
	return fmt.Errorf("%s %s: %w: %s", name, strings.Join(args, " "), err, detail)
}
