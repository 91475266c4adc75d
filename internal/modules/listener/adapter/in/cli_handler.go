package in

import (
	"context"

	"github.com/haarg/bcvi/internal/modules/listener/dto"
	listenerin "github.com/haarg/bcvi/internal/modules/listener/port/in"
)

type CLIHandler struct {
	usecase listenerin.Usecase
}

func NewCLIHandler(usecase listenerin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Run(ctx context.Context, port int) error {
	return h.usecase.Run(ctx, port)
}

func (h CLIHandler) Start(ctx context.Context, port int) error {
	return h.usecase.Start(ctx, port)
}

func (h CLIHandler) Stop(ctx context.Context) error {
	return h.usecase.Stop(ctx)
}

func (h CLIHandler) Status(ctx context.Context, port int) (dto.ListenerStatus, error) {
	return h.usecase.Status(ctx, port)
}
