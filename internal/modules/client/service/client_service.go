package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/haarg/bcvi/internal/modules/client/domain"
	clientout "github.com/haarg/bcvi/internal/modules/client/port/out"
	plugindomain "github.com/haarg/bcvi/internal/modules/plugin/domain"
	apperrors "github.com/haarg/bcvi/internal/platform/errors"
	"github.com/haarg/bcvi/internal/platform/wire"
)

// ClientService is the remote side of the tool: it sends one command
// to the workstation listener through the forwarded port, or opens the
// ssh session that sets that forwarding up in the first place.
type ClientService struct {
	dialer clientout.Dialer
	keys   clientout.KeyReader
	stdin  clientout.StdinSource
	ssh    clientout.SSHConnector
	role   plugindomain.ClientRole
	env    string
}

func NewClientService(
	dialer clientout.Dialer,
	keys clientout.KeyReader,
	stdin clientout.StdinSource,
	ssh clientout.SSHConnector,
	role plugindomain.ClientRole,
	env string,
) *ClientService {
	return &ClientService{
		dialer: dialer,
		keys:   keys,
		stdin:  stdin,
		ssh:    ssh,
		role:   role,
		env:    env,
	}
}

// Send delivers one command to the listener and interprets the reply
// through the client role chain. A connection that closes before any
// response arrives is the listener's failure signal, not a protocol
// answer.
func (s *ClientService) Send(ctx context.Context, command string, args []string, port int) error {
	target, err := domain.ParseTarget(s.env, port)
	if err != nil {
		return err
	}
	if target.Alias == "" {
		hostname, err := os.Hostname()
		if err != nil {
			return fmt.Errorf("resolve local hostname: %w", err)
		}
		target.Alias = hostname
	}

	key, err := s.keys.Read(ctx)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	body, piped, err := s.stdin.Body(ctx)
	if err != nil {
		return err
	}

	call := &plugindomain.Call{Command: command, Args: args, Alias: target.Alias, Key: key}
	if piped {
		call.Body = body
	}
	req, err := s.role.BuildRequest(ctx, call)
	if err != nil {
		return err
	}

	conn, err := s.dialer.Dial(ctx, target.Port)
	if err != nil {
		return fmt.Errorf("%w: port %d: %v", apperrors.ErrNoListenerFound, target.Port, err)
	}
	defer conn.Close()

	if err := wire.NewWriter(conn).WriteRequest(req); err != nil {
		return fmt.Errorf("send %s request: %w", command, err)
	}
	resp, err := wire.NewParser(conn).ReadResponse()
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return fmt.Errorf("server hung up answering %s", command)
		}
		return fmt.Errorf("read %s response: %w", command, err)
	}
	return s.role.HandleResponse(ctx, call, resp)
}

// Connect opens an interactive ssh session with the listener port
// reverse-forwarded and LC_BCVI exported, so bcvi on the far side can
// find its way back here.
func (s *ClientService) Connect(ctx context.Context, host string, port int) error {
	target, err := domain.ParseTarget(s.env, port)
	if err != nil {
		return err
	}
	return s.ssh.Connect(ctx, host, target.Port)
}
