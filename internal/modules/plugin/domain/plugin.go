package domain

import (
	"errors"
	"fmt"
	"regexp"
)

var (
	ErrUnknownPlugin = errors.New("unknown plugin")
	ErrBadActivation = errors.New("invalid activation file")
)

var pluginNamePattern = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)

// Plugin is one compiled in extension. Register runs exactly once per
// process, during the load phase, against the shared registration.
type Plugin interface {
	Name() string
	Summary() string
	Register(r *Registration) error
}

// Activation is one parsed file from the plugin directory. The file
// name decides load order; the Plugin field names a catalog entry.
type Activation struct {
	File     string
	Plugin   string            `yaml:"plugin"`
	Settings map[string]string `yaml:"settings"`
}

func (a Activation) Validate() error {
	if a.Plugin == "" {
		return fmt.Errorf("%w: %s: missing plugin name", ErrBadActivation, a.File)
	}
	if !pluginNamePattern.MatchString(a.Plugin) {
		return fmt.Errorf("%w: %s: plugin name %q must be lowercase words joined by dashes", ErrBadActivation, a.File, a.Plugin)
	}
	return nil
}

// Catalog holds every plugin compiled into the binary. Entries stay
// inert until an activation file names them.
type Catalog struct {
	order   []string
	entries map[string]Plugin
}

func NewCatalog() *Catalog {
	return &Catalog{entries: map[string]Plugin{}}
}

func (c *Catalog) Add(p Plugin) error {
	name := p.Name()
	if !pluginNamePattern.MatchString(name) {
		return fmt.Errorf("plugin name %q must be lowercase words joined by dashes", name)
	}
	if _, ok := c.entries[name]; ok {
		return fmt.Errorf("%w: plugin %q compiled in twice", ErrConflict, name)
	}
	c.entries[name] = p
	c.order = append(c.order, name)
	return nil
}

func (c *Catalog) Lookup(name string) (Plugin, bool) {
	p, ok := c.entries[name]
	return p, ok
}

// Names returns catalog entries in the order they were compiled in.
func (c *Catalog) Names() []string {
	return c.order
}
