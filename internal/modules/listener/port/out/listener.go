package out

import (
	"context"
	"net"
)

type ConnHandler func(ctx context.Context, conn net.Conn)

type TCPServer interface {
	Serve(ctx context.Context, port int, handle ConnHandler) error
}

type DaemonStore interface {
	WritePID(ctx context.Context, pid int) error
	ReadPID(ctx context.Context) (int, error)
	ClearPID(ctx context.Context) error
	LogPath() string
}

type KeyStore interface {
	Ensure(ctx context.Context) (string, error)
	Read(ctx context.Context) (string, error)
}

type EditorLauncher interface {
	Edit(ctx context.Context, targets []string, wait bool) error
}
