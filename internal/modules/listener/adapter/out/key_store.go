package out

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	listenerout "github.com/haarg/bcvi/internal/modules/listener/port/out"
	"github.com/haarg/bcvi/internal/platform/id"
)

// FileKeyStore persists the shared auth key. The file is created 0600
// on first listener start; installs copy its value to remote hosts so
// their clients can authenticate.
type FileKeyStore struct {
	path string
	gen  id.Generator
}

func NewFileKeyStore(path string, gen id.Generator) listenerout.KeyStore {
	return &FileKeyStore{path: path, gen: gen}
}

func (s *FileKeyStore) Ensure(ctx context.Context) (string, error) {
	key, err := s.Read(ctx)
	if err == nil {
		return key, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return "", err
	}
	key = s.gen.New()
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return "", fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(key+"\n"), 0o600); err != nil {
		return "", fmt.Errorf("write listener key: %w", err)
	}
	return key, nil
}

func (s *FileKeyStore) Read(_ context.Context) (string, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return "", err
	}
	key := strings.TrimSpace(string(raw))
	if key == "" {
		return "", fmt.Errorf("listener key file %s is empty", s.path)
	}
	return key, nil
}
