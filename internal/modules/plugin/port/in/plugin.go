package in

import (
	"context"

	"github.com/haarg/bcvi/internal/modules/plugin/dto"
)

type Usecase interface {
	List(ctx context.Context) ([]dto.PluginInfo, error)
	Help(ctx context.Context, name string) (dto.PluginHelp, error)
}
