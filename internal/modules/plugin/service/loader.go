package service

import (
	"context"
	"fmt"

	"github.com/haarg/bcvi/internal/modules/plugin/domain"
	pluginout "github.com/haarg/bcvi/internal/modules/plugin/port/out"
)

// LoaderService activates plugins against a registration. Activation
// order is the store's file name order, which is the only ordering
// control users have.
type LoaderService struct {
	catalog *domain.Catalog
	store   pluginout.ActivationStore
}

func NewLoaderService(catalog *domain.Catalog, store pluginout.ActivationStore) *LoaderService {
	return &LoaderService{catalog: catalog, store: store}
}

// Load runs every activation in order. Any failure aborts the whole
// load; there are no partial loads.
func (s *LoaderService) Load(ctx context.Context, reg *domain.Registration) error {
	activations, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	activatedBy := map[string]string{}
	for _, act := range activations {
		if err := act.Validate(); err != nil {
			return err
		}
		if prev, ok := activatedBy[act.Plugin]; ok {
			return fmt.Errorf("%w: %s: plugin %q already activated by %s", domain.ErrBadActivation, act.File, act.Plugin, prev)
		}
		activatedBy[act.Plugin] = act.File

		plugin, ok := s.catalog.Lookup(act.Plugin)
		if !ok {
			return fmt.Errorf("%w: %s names %q, which is not compiled into this build", domain.ErrUnknownPlugin, act.File, act.Plugin)
		}
		reg.Begin(act.Plugin, act.Settings)
		if err := plugin.Register(reg); err != nil {
			return fmt.Errorf("activate %s from %s: %w", act.Plugin, act.File, err)
		}
	}
	return nil
}
