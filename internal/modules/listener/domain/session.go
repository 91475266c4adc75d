package domain

import (
	"io"

	apperrors "github.com/haarg/bcvi/internal/platform/errors"
	"github.com/haarg/bcvi/internal/platform/wire"
)

// ConnSession binds one parsed request to the connection it arrived on.
// It enforces the single response rule: after the first Respond, or
// after MarkResponded, further Respond calls fail.
type ConnSession struct {
	req       *wire.Request
	conn      io.Writer
	wr        *wire.Writer
	responded bool
}

func NewConnSession(req *wire.Request, conn io.Writer) *ConnSession {
	return &ConnSession{
		req:  req,
		conn: conn,
		wr:   wire.NewWriter(conn),
	}
}

func (s *ConnSession) Request() *wire.Request {
	return s.req
}

func (s *ConnSession) Respond(resp *wire.Response) error {
	if s.responded {
		return apperrors.ErrResponseFinished
	}
	if err := s.wr.WriteResponse(resp); err != nil {
		return err
	}
	s.responded = true
	return nil
}

func (s *ConnSession) Responded() bool {
	return s.responded
}

// Raw hands out the connection for handlers that frame their own
// response. The caller must MarkResponded afterwards or the dispatcher
// will append a status 200 line behind whatever was written.
func (s *ConnSession) Raw() io.Writer {
	return s.conn
}

func (s *ConnSession) MarkResponded() {
	s.responded = true
}
