package usecase

import (
	"context"

	"github.com/haarg/bcvi/internal/modules/plugin/dto"
	pluginin "github.com/haarg/bcvi/internal/modules/plugin/port/in"
	"github.com/haarg/bcvi/internal/modules/plugin/service"
)

type Interactor struct {
	svc *service.PluginService
}

func NewInteractor(svc *service.PluginService) pluginin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) List(ctx context.Context) ([]dto.PluginInfo, error) {
	return i.svc.List(ctx)
}

func (i *Interactor) Help(ctx context.Context, name string) (dto.PluginHelp, error) {
	return i.svc.Help(ctx, name)
}
