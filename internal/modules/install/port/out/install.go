package out

import (
	"context"
	"time"

	"github.com/haarg/bcvi/internal/modules/install/domain"
)

type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
	Output(ctx context.Context, name string, args ...string) (string, error)
	RunInput(ctx context.Context, input []byte, name string, args ...string) error
}

// KeySource guarantees the shared auth key exists before it is copied
// to a remote host. The listener's key store satisfies it.
type KeySource interface {
	Ensure(ctx context.Context) (string, error)
}

type Tracker interface {
	RecordInstall(ctx context.Context, host string, now time.Time) error
	Hosts(ctx context.Context) ([]domain.InstallRecord, error)
}

type RCFileStore interface {
	Path() string
	UpdateBlock(ctx context.Context, lines []string) error
}
