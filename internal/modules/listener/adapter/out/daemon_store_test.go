package out_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/haarg/bcvi/internal/modules/listener/adapter/out"
)

func TestPIDRoundTrip(t *testing.T) {
	t.Parallel()

	store := out.NewFileDaemonStore(t.TempDir())
	ctx := context.Background()

	if err := store.WritePID(ctx, 4321); err != nil {
		t.Fatalf("WritePID() error = %v", err)
	}
	pid, err := store.ReadPID(ctx)
	if err != nil {
		t.Fatalf("ReadPID() error = %v", err)
	}
	if pid != 4321 {
		t.Fatalf("ReadPID() = %d, want 4321", pid)
	}

	if err := store.ClearPID(ctx); err != nil {
		t.Fatalf("ClearPID() error = %v", err)
	}
	if _, err := store.ReadPID(ctx); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("ReadPID() after clear error = %v, want not-exist", err)
	}
}

func TestClearPIDWithoutFileIsANoop(t *testing.T) {
	t.Parallel()

	store := out.NewFileDaemonStore(t.TempDir())
	if err := store.ClearPID(context.Background()); err != nil {
		t.Fatalf("ClearPID() error = %v", err)
	}
}
