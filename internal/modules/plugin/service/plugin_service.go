package service

import (
	"context"
	"fmt"

	"github.com/haarg/bcvi/internal/modules/plugin/domain"
	"github.com/haarg/bcvi/internal/modules/plugin/dto"
	pluginout "github.com/haarg/bcvi/internal/modules/plugin/port/out"
)

// PluginService answers questions about the compiled in catalog and
// what the finalized registry attributes to each plugin.
type PluginService struct {
	catalog  *domain.Catalog
	store    pluginout.ActivationStore
	registry *domain.Registry
}

func NewPluginService(catalog *domain.Catalog, store pluginout.ActivationStore, registry *domain.Registry) *PluginService {
	return &PluginService{catalog: catalog, store: store, registry: registry}
}

func (s *PluginService) List(ctx context.Context) ([]dto.PluginInfo, error) {
	activations, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	activeFile := map[string]string{}
	for _, act := range activations {
		activeFile[act.Plugin] = act.File
	}
	out := make([]dto.PluginInfo, 0, len(s.catalog.Names()))
	for _, name := range s.catalog.Names() {
		plugin, _ := s.catalog.Lookup(name)
		file, active := activeFile[name]
		out = append(out, dto.PluginInfo{
			Name:    name,
			Summary: plugin.Summary(),
			Active:  active,
			File:    file,
		})
	}
	return out, nil
}

func (s *PluginService) Help(ctx context.Context, name string) (dto.PluginHelp, error) {
	plugin, ok := s.catalog.Lookup(name)
	if !ok {
		return dto.PluginHelp{}, fmt.Errorf("%w: %s", domain.ErrUnknownPlugin, name)
	}
	activations, err := s.store.Load(ctx)
	if err != nil {
		return dto.PluginHelp{}, err
	}
	active := false
	for _, act := range activations {
		if act.Plugin == name {
			active = true
			break
		}
	}

	contrib := s.registry.Contributions(name)
	help := dto.PluginHelp{
		Name:        name,
		Summary:     plugin.Summary(),
		Active:      active,
		HookedRole:  contrib.HookedRole,
		Installable: contrib.Installable,
		Aliases:     contrib.Aliases,
	}
	for _, opt := range contrib.Options {
		help.Options = append(help.Options, dto.OptionHelp{
			Name:        opt.Name,
			Alias:       opt.Alias,
			ArgName:     opt.ArgName,
			Dispatch:    opt.Dispatch,
			Summary:     opt.Summary,
			Description: opt.Description,
		})
	}
	for _, cmd := range contrib.Commands {
		help.Commands = append(help.Commands, dto.CommandHelp{Name: cmd.Name, Description: cmd.Description})
	}
	return help, nil
}
