package in

import (
	"context"

	"github.com/haarg/bcvi/internal/modules/install/dto"
)

type Usecase interface {
	Install(ctx context.Context, host string) error
	AddAliases(ctx context.Context) error
	UpdateAll(ctx context.Context) ([]dto.HostResult, error)
	Hosts(ctx context.Context) ([]dto.HostRecord, error)
}
