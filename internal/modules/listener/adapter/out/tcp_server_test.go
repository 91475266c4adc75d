package out_test

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/haarg/bcvi/internal/modules/listener/adapter/out"
)

func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("reserve port: %v", err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	_ = ln.Close()
	return port
}

func TestServeHandsConnectionsToTheHandlerAndStopsOnCancel(t *testing.T) {
	port := freePort(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan string, 1)
	srvErr := make(chan error, 1)
	go func() {
		srvErr <- out.NewLoopbackTCPServer().Serve(ctx, port, func(_ context.Context, conn net.Conn) {
			defer conn.Close()
			line, err := bufio.NewReader(conn).ReadString('\n')
			if err != nil {
				return
			}
			got <- strings.TrimSpace(line)
		})
	}()

	var conn net.Conn
	var err error
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		conn, err = net.Dial("tcp", fmt.Sprintf("127.0.0.1:%d", port))
		if err == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("dial listener: %v", err)
	}
	defer conn.Close()

	if _, err := fmt.Fprintln(conn, "ping"); err != nil {
		t.Fatalf("write to listener: %v", err)
	}
	select {
	case msg := <-got:
		if msg != "ping" {
			t.Fatalf("handler read %q, want ping", msg)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("handler never saw the connection")
	}

	cancel()
	select {
	case err := <-srvErr:
		if err != nil {
			t.Fatalf("Serve() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Serve did not return after cancel")
	}
}
