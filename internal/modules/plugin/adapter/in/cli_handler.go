package in

import (
	"context"

	"github.com/haarg/bcvi/internal/modules/plugin/dto"
	pluginin "github.com/haarg/bcvi/internal/modules/plugin/port/in"
)

type CLIHandler struct {
	usecase pluginin.Usecase
}

func NewCLIHandler(usecase pluginin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) List(ctx context.Context) ([]dto.PluginInfo, error) {
	return h.usecase.List(ctx)
}

func (h CLIHandler) Help(ctx context.Context, name string) (dto.PluginHelp, error) {
	return h.usecase.Help(ctx, name)
}
