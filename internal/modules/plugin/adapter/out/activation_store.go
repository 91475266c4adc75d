package out

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/haarg/bcvi/internal/modules/plugin/domain"
	pluginout "github.com/haarg/bcvi/internal/modules/plugin/port/out"
)

// FileActivationStore reads one activation per file from the plugin
// directory. Only that directory is ever consulted; plugins compiled
// into the binary stay inert without a file here.
type FileActivationStore struct {
	dir string
}

func NewFileActivationStore(dir string) pluginout.ActivationStore {
	return &FileActivationStore{dir: dir}
}

// Load returns activations in ascending file name order. Hidden files
// are skipped; every other file must parse or the load fails.
func (s *FileActivationStore) Load(_ context.Context) ([]domain.Activation, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []domain.Activation{}, nil
		}
		return nil, fmt.Errorf("read plugin directory: %w", err)
	}

	activations := make([]domain.Activation, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read activation file %s: %w", entry.Name(), err)
		}
		act, err := decodeActivation(entry.Name(), raw)
		if err != nil {
			return nil, err
		}
		activations = append(activations, act)
	}
	return activations, nil
}

func decodeActivation(name string, raw []byte) (domain.Activation, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(raw))
	decoder.KnownFields(true)
	var act domain.Activation
	if err := decoder.Decode(&act); err != nil {
		return domain.Activation{}, fmt.Errorf("%w: %s: %v", domain.ErrBadActivation, name, err)
	}
	act.File = name
	return act, nil
}
