package out

import (
	"context"

	"github.com/haarg/bcvi/internal/modules/plugin/domain"
)

// ActivationStore reads plugin activation files from the user's plugin
// directory, ordered by file name.
type ActivationStore interface {
	Load(ctx context.Context) ([]domain.Activation, error)
}
