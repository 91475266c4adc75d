package in

import (
	"context"

	"github.com/haarg/bcvi/internal/modules/listener/dto"
)

type Usecase interface {
	Run(ctx context.Context, port int) error
	Start(ctx context.Context, port int) error
	Stop(ctx context.Context) error
	Status(ctx context.Context, port int) (dto.ListenerStatus, error)
}
