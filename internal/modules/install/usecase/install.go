package usecase

import (
	"context"

	"github.com/haarg/bcvi/internal/modules/install/dto"
	installin "github.com/haarg/bcvi/internal/modules/install/port/in"
)

type servicePort interface {
	Install(ctx context.Context, host string) error
	AddAliases(ctx context.Context) error
	UpdateAll(ctx context.Context) ([]dto.HostResult, error)
	Hosts(ctx context.Context) ([]dto.HostRecord, error)
}

type Interactor struct {
	service servicePort
}

func NewInteractor(service servicePort) installin.Usecase {
	return &Interactor{service: service}
}

func (i *Interactor) Install(ctx context.Context, host string) error {
	return i.service.Install(ctx, host)
}

func (i *Interactor) AddAliases(ctx context.Context) error {
	return i.service.AddAliases(ctx)
}

func (i *Interactor) UpdateAll(ctx context.Context) ([]dto.HostResult, error) {
	return i.service.UpdateAll(ctx)
}

func (i *Interactor) Hosts(ctx context.Context) ([]dto.HostRecord, error) {
	return i.service.Hosts(ctx)
}
