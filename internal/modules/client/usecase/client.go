package usecase

import (
	"context"

	clientin "github.com/haarg/bcvi/internal/modules/client/port/in"
)

type servicePort interface {
	Send(ctx context.Context, command string, args []string, port int) error
	Connect(ctx context.Context, host string, port int) error
}

type Interactor struct {
	svc servicePort
}

func NewInteractor(svc servicePort) clientin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Send(ctx context.Context, command string, args []string, port int) error {
	return i.svc.Send(ctx, command, args, port)
}

func (i *Interactor) Connect(ctx context.Context, host string, port int) error {
	return i.svc.Connect(ctx, host, port)
}
