package out

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	clientout "github.com/haarg/bcvi/internal/modules/client/port/out"
)

type TerminalStdin struct{}

func NewTerminalStdin() clientout.StdinSource {
	return &TerminalStdin{}
}

// Body reads piped input in full. An interactive terminal attaches
// nothing; commands that carry a body get it from a pipe or redirect.
func (s *TerminalStdin) Body(_ context.Context) ([]byte, bool, error) {
	fd := os.Stdin.Fd()
	if isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
		return nil, false, nil
	}
	raw, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, false, fmt.Errorf("read piped input: %w", err)
	}
	return raw, true, nil
}
