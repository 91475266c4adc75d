package in

import (
	"context"

	clientin "github.com/haarg/bcvi/internal/modules/client/port/in"
)

type CLIHandler struct {
	usecase clientin.Usecase
}

func NewCLIHandler(usecase clientin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Send(ctx context.Context, command string, args []string, port int) error {
	return h.usecase.Send(ctx, command, args, port)
}

func (h CLIHandler) Connect(ctx context.Context, host string, port int) error {
	return h.usecase.Connect(ctx, host, port)
}
