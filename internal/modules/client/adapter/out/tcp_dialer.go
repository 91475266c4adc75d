package out

import (
	"context"
	"net"
	"strconv"
	"time"

	clientout "github.com/haarg/bcvi/internal/modules/client/port/out"
)

const dialTimeout = 3 * time.Second

type LoopbackDialer struct{}

func NewLoopbackDialer() clientout.Dialer {
	return &LoopbackDialer{}
}

// Dial connects to the forwarded listener port on localhost. On a
// remote host sshd owns that port and relays to the workstation.
func (d *LoopbackDialer) Dial(ctx context.Context, port int) (net.Conn, error) {
	dialer := net.Dialer{Timeout: dialTimeout}
	return dialer.DialContext(ctx, "tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(port)))
}
