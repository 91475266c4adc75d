package out

import (
	"context"
	"net"
)

type Dialer interface {
	Dial(ctx context.Context, port int) (net.Conn, error)
}

type KeyReader interface {
	Read(ctx context.Context) (string, error)
}

type StdinSource interface {
	Body(ctx context.Context) ([]byte, bool, error)
}

type SSHConnector interface {
	Connect(ctx context.Context, host string, port int) error
}
