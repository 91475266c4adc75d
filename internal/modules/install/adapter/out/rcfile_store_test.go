package out_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/haarg/bcvi/internal/modules/install/adapter/out"
	"github.com/haarg/bcvi/internal/platform/shellrc"
)

func TestUpdateBlockCreatesTheFileAndIsIdempotent(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ".bashrc")
	store := out.NewFileRCStore(path)
	lines := []string{`alias bssh='bcvi'`}
	ctx := context.Background()

	if err := store.UpdateBlock(ctx, lines); err != nil {
		t.Fatalf("UpdateBlock: %v", err)
	}
	first, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	for _, fragment := range []string{shellrc.BlockStart, lines[0], shellrc.BlockEnd} {
		if !strings.Contains(string(first), fragment) {
			t.Errorf("startup file missing %q:\n%s", fragment, first)
		}
	}

	if err := store.UpdateBlock(ctx, lines); err != nil {
		t.Fatalf("second UpdateBlock: %v", err)
	}
	second, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(second) != string(first) {
		t.Errorf("repeated update changed the file:\n--- first ---\n%s--- second ---\n%s", first, second)
	}
}

func TestUpdateBlockPreservesContentAndMode(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ".bashrc")
	original := "export EDITOR=vi\nstty -ixon\n"
	if err := os.WriteFile(path, []byte(original), 0o600); err != nil {
		t.Fatalf("seed startup file: %v", err)
	}
	store := out.NewFileRCStore(path)
	ctx := context.Background()

	if err := store.UpdateBlock(ctx, []string{"alias old='x'"}); err != nil {
		t.Fatalf("UpdateBlock: %v", err)
	}
	if err := store.UpdateBlock(ctx, []string{"alias new='y'"}); err != nil {
		t.Fatalf("second UpdateBlock: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	body := string(raw)
	if !strings.Contains(body, "export EDITOR=vi") || !strings.Contains(body, "stty -ixon") {
		t.Errorf("unmanaged lines were lost:\n%s", body)
	}
	if strings.Contains(body, "alias old=") {
		t.Errorf("stale block content survived:\n%s", body)
	}
	if !strings.Contains(body, "alias new='y'") {
		t.Errorf("replacement block missing:\n%s", body)
	}
	if strings.Count(body, shellrc.BlockStart) != 1 {
		t.Errorf("want exactly one alias block:\n%s", body)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("mode = %o, want 600 preserved", info.Mode().Perm())
	}
}
