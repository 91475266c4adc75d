package usecase

import (
	"context"

	"github.com/haarg/bcvi/internal/modules/listener/dto"
	listenerin "github.com/haarg/bcvi/internal/modules/listener/port/in"
)

type servicePort interface {
	Run(ctx context.Context, port int) error
	Start(ctx context.Context, port int) error
	Stop(ctx context.Context) error
	Status(ctx context.Context, port int) (dto.ListenerStatus, error)
}

type Interactor struct {
	svc servicePort
}

func NewInteractor(svc servicePort) listenerin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Run(ctx context.Context, port int) error {
	return i.svc.Run(ctx, port)
}

func (i *Interactor) Start(ctx context.Context, port int) error {
	return i.svc.Start(ctx, port)
}

func (i *Interactor) Stop(ctx context.Context) error {
	return i.svc.Stop(ctx)
}

func (i *Interactor) Status(ctx context.Context, port int) (dto.ListenerStatus, error) {
	return i.svc.Status(ctx, port)
}
