package domain

import (
	"context"
	"io"

	"github.com/haarg/bcvi/internal/platform/wire"
)

// Session is the connection scoped handle a command handler works
// with. One session never outlives its connection, and at most one
// response travels back on it.
type Session interface {
	// Request returns the fully read request frame.
	Request() *wire.Request

	// Respond encodes one response and marks the session responded.
	// A second call fails.
	Respond(resp *wire.Response) error

	// Responded reports whether a response has been sent, through
	// Respond or acknowledged via MarkResponded.
	Responded() bool

	// Raw exposes the connection for handlers that write status lines
	// outside the fixed enumeration. Callers own the framing and must
	// call MarkResponded afterwards.
	Raw() io.Writer

	// MarkResponded records that a response was written to Raw.
	MarkResponded()
}

// ServerRole is the overridable server side behaviour. The listener
// supplies the base implementation; plugins wrap it through HookServer
// and delegate by calling the wrapped role's method.
type ServerRole interface {
	// Authorize decides whether the request may dispatch at all.
	// Returning false sends a permission denied status.
	Authorize(ctx context.Context, sess Session) (bool, error)

	ExecuteVi(ctx context.Context, sess Session) error
	ExecuteViwait(ctx context.Context, sess Session) error
	ExecuteCommandsPod(ctx context.Context, sess Session) error
}

// ClientRole is the overridable client side behaviour.
type ClientRole interface {
	// BuildRequest turns one invocation into a request frame.
	BuildRequest(ctx context.Context, call *Call) (*wire.Request, error)

	// HandleResponse interprets the listener's reply.
	HandleResponse(ctx context.Context, call *Call, resp *wire.Response) error
}

// ServerHook wraps the next server role in the chain. Wrappers usually
// embed next so untouched methods delegate automatically.
type ServerHook func(next ServerRole) ServerRole

type ClientHook func(next ClientRole) ClientRole

// Call is one client side invocation as it travels through the client
// role chain.
type Call struct {
	Command string
	Args    []string
	Alias   string
	Key     string
	Body    []byte
}
