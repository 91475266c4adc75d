package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	plugindomain "github.com/haarg/bcvi/internal/modules/plugin/domain"
	apperrors "github.com/haarg/bcvi/internal/platform/errors"
	"github.com/haarg/bcvi/internal/platform/wire"
)

// fileCommands name the built in commands whose arguments are paths.
// Only their arguments get resolved to absolute form; every other
// command's arguments travel as written, since the handler on the far
// side owns their meaning.
var fileCommands = map[string]bool{
	"vi":     true,
	"viwait": true,
}

// BaseClientRole is the built in client behaviour at the bottom of the
// hook chain: build one request, interpret one response.
type BaseClientRole struct {
	out io.Writer
}

func NewBaseClientRole(out io.Writer) *BaseClientRole {
	return &BaseClientRole{out: out}
}

func (r *BaseClientRole) BuildRequest(_ context.Context, call *plugindomain.Call) (*wire.Request, error) {
	args := call.Args
	if fileCommands[call.Command] {
		resolved := make([]string, 0, len(args))
		for _, arg := range args {
			abs, err := filepath.Abs(arg)
			if err != nil {
				return nil, fmt.Errorf("resolve path %s: %w", arg, err)
			}
			resolved = append(resolved, abs)
		}
		args = resolved
	}

	headers := map[string]string{}
	if call.Alias != "" {
		headers[wire.HeaderHostAlias] = call.Alias
	}
	if call.Key != "" {
		headers[wire.HeaderAuthKey] = call.Key
	}
	return &wire.Request{
		Command:   call.Command,
		Filenames: args,
		Headers:   headers,
		Body:      call.Body,
	}, nil
}

func (r *BaseClientRole) HandleResponse(_ context.Context, call *plugindomain.Call, resp *wire.Response) error {
	switch resp.Status {
	case wire.StatusOK:
		return nil
	case wire.StatusResponseFollows:
		if _, err := r.out.Write(resp.Body); err != nil {
			return fmt.Errorf("write response body: %w", err)
		}
		return nil
	case wire.StatusPermissionDenied:
		return fmt.Errorf("%w: listener denied %s, check the auth key on this host", apperrors.ErrNotAuthorized, call.Command)
	case wire.StatusUnrecognisedCommand:
		return fmt.Errorf("listener does not recognise command %q", call.Command)
	default:
		return fmt.Errorf("unexpected response to %s: %03d %s", call.Command, resp.Status, resp.Text)
	}
}
