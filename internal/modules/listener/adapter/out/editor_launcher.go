package out

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	listenerout "github.com/haarg/bcvi/internal/modules/listener/port/out"
)

const defaultEditor = "gvim"

// GvimLauncher hands edit targets to a running gvim instance. netrw
// inside gvim resolves the scp:// targets over ssh. BCVI_EDITOR
// overrides the binary.
type GvimLauncher struct{}

func NewGvimLauncher() listenerout.EditorLauncher {
	return &GvimLauncher{}
}

func (l *GvimLauncher) Edit(_ context.Context, targets []string, wait bool) error {
	if len(targets) == 0 {
		return fmt.Errorf("nothing to edit")
	}
	editor := os.Getenv("BCVI_EDITOR")
	if editor == "" {
		editor = defaultEditor
	}
	mode := "--remote-silent"
	if wait {
		mode = "--remote-wait-silent"
	}
	cmd := exec.Command(editor, append([]string{mode}, targets...)...)
	if wait {
		if err := cmd.Run(); err != nil {
			return fmt.Errorf("run editor: %w", err)
		}
		return nil
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("launch editor: %w", err)
	}
	// Reap in the background; the listener process stays up for days.
	go func() { _ = cmd.Wait() }()
	return nil
}
