package out

import (
	"context"
	"fmt"
	"net"
	"strconv"

	listenerout "github.com/haarg/bcvi/internal/modules/listener/port/out"
)

type LoopbackTCPServer struct{}

func NewLoopbackTCPServer() listenerout.TCPServer {
	return &LoopbackTCPServer{}
}

// Serve binds the loopback interface only. Remote clients reach the
// port through an SSH reverse forward, never directly.
func (s *LoopbackTCPServer) Serve(ctx context.Context, port int, handle listenerout.ConnHandler) error {
	ln, err := net.Listen("tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(port)))
	if err != nil {
		return fmt.Errorf("listen on port %d: %w", port, err)
	}
	defer ln.Close()

	stop := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			_ = ln.Close()
		case <-stop:
		}
	}()
	defer close(stop)

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			return err
		}
		go handle(ctx, conn)
	}
}
