package out

import (
	"context"
	"fmt"
	"os"

	installout "github.com/haarg/bcvi/internal/modules/install/port/out"
	"github.com/haarg/bcvi/internal/platform/shellrc"
)

// FileRCStore maintains the alias block inside one local shell startup
// file. Everything outside the markers is preserved.
type FileRCStore struct {
	path string
}

func NewFileRCStore(path string) installout.RCFileStore {
	return &FileRCStore{path: path}
}

func (s *FileRCStore) Path() string {
	return s.path
}

func (s *FileRCStore) UpdateBlock(_ context.Context, lines []string) error {
	body := ""
	mode := os.FileMode(0o644)
	raw, err := os.ReadFile(s.path)
	switch {
	case err == nil:
		body = string(raw)
		if info, statErr := os.Stat(s.path); statErr == nil {
			mode = info.Mode().Perm()
		}
	case !os.IsNotExist(err):
		return fmt.Errorf("read %s: %w", s.path, err)
	}
	updated := shellrc.RenderAliasBlock(body, lines)
	if err := os.WriteFile(s.path, []byte(updated), mode); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	return nil
}
