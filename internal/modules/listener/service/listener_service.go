package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/haarg/bcvi/internal/modules/listener/domain"
	"github.com/haarg/bcvi/internal/modules/listener/dto"
	listenerout "github.com/haarg/bcvi/internal/modules/listener/port/out"
	plugindomain "github.com/haarg/bcvi/internal/modules/plugin/domain"
	apperrors "github.com/haarg/bcvi/internal/platform/errors"
	"github.com/haarg/bcvi/internal/platform/wire"
)

const (
	listenerStartTimeout = 5 * time.Second
	stopGracePeriod      = 2 * time.Second
)

// ListenerService runs the workstation side: a loopback TCP listener
// dispatching one command per connection, plus the pidfile lifecycle
// for running it in the background.
type ListenerService struct {
	server   listenerout.TCPServer
	daemon   listenerout.DaemonStore
	keys     listenerout.KeyStore
	registry *plugindomain.Registry
	role     plugindomain.ServerRole
	log      hclog.Logger
}

func NewListenerService(
	server listenerout.TCPServer,
	daemon listenerout.DaemonStore,
	keys listenerout.KeyStore,
	registry *plugindomain.Registry,
	role plugindomain.ServerRole,
	log hclog.Logger,
) *ListenerService {
	return &ListenerService{
		server:   server,
		daemon:   daemon,
		keys:     keys,
		registry: registry,
		role:     role,
		log:      log,
	}
}

// Run serves connections in the foreground until ctx is cancelled. The
// auth key is created on first start so installs have something to
// copy to remote hosts.
func (s *ListenerService) Run(ctx context.Context, port int) error {
	if _, err := s.keys.Ensure(ctx); err != nil {
		return err
	}
	s.log.Info("listener accepting connections", "port", port)
	return s.server.Serve(ctx, port, s.Handle)
}

// Handle owns one accepted connection: read a single request, dispatch
// it, close. A failed handler closes the connection with no response;
// the client reads the hangup as the failure signal.
func (s *ListenerService) Handle(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	req, err := wire.NewParser(conn).ReadRequest()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return
		}
		s.log.Error("dropping connection with unreadable request", "remote", conn.RemoteAddr().String(), "error", err)
		return
	}
	s.log.Debug("request received", "command", req.Command, "files", len(req.Filenames))

	sess := domain.NewConnSession(req, conn)
	if err := s.dispatch(ctx, sess); err != nil {
		s.log.Error("command failed", "command", req.Command, "error", err)
	}
}

// dispatch resolves and runs the handler for the session's command.
// Authorization runs first and answers 900 on denial. An unknown
// command answers 910 without touching any handler. A handler that
// returns nil without responding gets a bare 200 appended; a handler
// error (or panic) leaves the connection silent.
func (s *ListenerService) dispatch(ctx context.Context, sess plugindomain.Session) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()

	ok, authErr := s.role.Authorize(ctx, sess)
	if authErr != nil {
		s.log.Error("authorization error", "error", authErr)
	}
	if authErr != nil || !ok {
		return sess.Respond(wire.Denied())
	}

	name := sess.Request().Command
	handler, found := s.registry.Handler(name)
	if !found {
		s.log.Info("unrecognised command", "command", name)
		return sess.Respond(wire.Unrecognised())
	}

	if err := handler(ctx, s.role, sess); err != nil {
		return err
	}
	if !sess.Responded() {
		return sess.Respond(wire.OK())
	}
	return nil
}

// Start launches a background listener by re-running the current
// binary with --listener. The child detaches into its own process
// group and logs to the daemon log file.
func (s *ListenerService) Start(ctx context.Context, port int) error {
	status, statusErr := s.Status(ctx, port)
	if statusErr == nil && status.Running {
		return fmt.Errorf("%w: pid %d", apperrors.ErrListenerRunning, status.PID)
	}

	execPath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.daemon.LogPath()), 0o755); err != nil {
		return fmt.Errorf("create listener log dir: %w", err)
	}
	logFile, err := os.OpenFile(s.daemon.LogPath(), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open listener log: %w", err)
	}
	defer logFile.Close()

	cmd := exec.Command(execPath, "--listener", "--port", strconv.Itoa(port))
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	cmd.Stdin = nil
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start listener: %w", err)
	}
	if err := s.daemon.WritePID(ctx, cmd.Process.Pid); err != nil {
		return err
	}
	_ = cmd.Process.Release()

	if err := waitForPort(port, listenerStartTimeout); err != nil {
		_ = s.daemon.ClearPID(ctx)
		return err
	}
	return nil
}

// Stop terminates the background listener recorded in the pid file.
// The process gets SIGTERM and a short grace period before SIGKILL.
func (s *ListenerService) Stop(ctx context.Context) error {
	pid, err := s.daemon.ReadPID(ctx)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return apperrors.ErrNoListenerFound
		}
		return err
	}
	if pid <= 0 || !processAlive(pid) {
		_ = s.daemon.ClearPID(ctx)
		return apperrors.ErrNoListenerFound
	}
	if err := syscall.Kill(pid, syscall.SIGTERM); err != nil && !errors.Is(err, syscall.ESRCH) {
		return fmt.Errorf("stop listener pid=%d: %w", pid, err)
	}
	deadline := time.Now().Add(stopGracePeriod)
	for time.Now().Before(deadline) {
		if !processAlive(pid) {
			break
		}
		time.Sleep(100 * time.Millisecond)
	}
	if processAlive(pid) {
		_ = syscall.Kill(pid, syscall.SIGKILL)
	}
	return s.daemon.ClearPID(ctx)
}

func (s *ListenerService) Status(ctx context.Context, port int) (dto.ListenerStatus, error) {
	out := dto.ListenerStatus{Port: port, LogPath: s.daemon.LogPath()}
	pid, err := s.daemon.ReadPID(ctx)
	if err == nil {
		out.PID = pid
		out.Running = processAlive(pid)
	}
	out.Reachable = portReachable(port)
	return out, nil
}

func waitForPort(port int, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if portReachable(port) {
			return nil
		}
		time.Sleep(100 * time.Millisecond)
	}
	return fmt.Errorf("listener port %d not ready", port)
}

func portReachable(port int) bool {
	conn, err := net.DialTimeout("tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(port)), 150*time.Millisecond)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

func processAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	err := syscall.Kill(pid, 0)
	return err == nil || errors.Is(err, syscall.EPERM)
}
