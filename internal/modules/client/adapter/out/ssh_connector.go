package out

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	clientout "github.com/haarg/bcvi/internal/modules/client/port/out"
)

// OpenSSHConnector runs the system ssh with the listener port
// reverse-forwarded and LC_BCVI exported. sshd passes LC_* variables
// through by default (AcceptEnv LC_*), which is what smuggles the
// alias and port to the far side without server configuration.
type OpenSSHConnector struct{}

func NewOpenSSHConnector() clientout.SSHConnector {
	return &OpenSSHConnector{}
}

func (c *OpenSSHConnector) Connect(_ context.Context, host string, port int) error {
	forward := fmt.Sprintf("%d:127.0.0.1:%d", port, port)
	cmd := exec.Command("ssh", "-R", forward, "-o", "SendEnv=LC_BCVI", host)
	cmd.Env = append(os.Environ(), fmt.Sprintf("LC_BCVI=%s:%d", host, port))
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ssh to %s: %w", host, err)
	}
	return nil
}
