package in

import (
	"context"

	"github.com/haarg/bcvi/internal/modules/install/dto"
	installin "github.com/haarg/bcvi/internal/modules/install/port/in"
)

type CLIHandler struct {
	usecase installin.Usecase
}

func NewCLIHandler(usecase installin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Install(ctx context.Context, host string) error {
	return h.usecase.Install(ctx, host)
}

func (h CLIHandler) AddAliases(ctx context.Context) error {
	return h.usecase.AddAliases(ctx)
}

func (h CLIHandler) UpdateAll(ctx context.Context) ([]dto.HostResult, error) {
	return h.usecase.UpdateAll(ctx)
}

func (h CLIHandler) Hosts(ctx context.Context) ([]dto.HostRecord, error) {
	return h.usecase.Hosts(ctx)
}
