package domain

import (
	"fmt"
	"strconv"
	"strings"

	apperrors "github.com/haarg/bcvi/internal/platform/errors"
)

// Target is where a client invocation goes: the host alias the
// listener presents back to the editor, and the loopback port the
// listener answers on. On a remote host both come out of the LC_BCVI
// environment value the ssh wrapper exported.
type Target struct {
	Alias string
	Port  int
}

// ParseTarget decodes an LC_BCVI value, <alias>[:<port>]. An empty
// value leaves the alias blank for the caller to fill with the local
// hostname; a bare alias keeps the default port.
func ParseTarget(raw string, defaultPort int) (Target, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Target{Port: defaultPort}, nil
	}
	alias, portText, found := strings.Cut(raw, ":")
	if alias == "" {
		return Target{}, fmt.Errorf("%w: no host alias in LC_BCVI value %q", apperrors.ErrInvalidInput, raw)
	}
	if !found {
		return Target{Alias: alias, Port: defaultPort}, nil
	}
	port, err := strconv.Atoi(portText)
	if err != nil || port < 1 || port > 65535 {
		return Target{}, fmt.Errorf("%w: bad port in LC_BCVI value %q", apperrors.ErrInvalidInput, raw)
	}
	return Target{Alias: alias, Port: port}, nil
}

// String renders the target back into the LC_BCVI wire form.
func (t Target) String() string {
	return fmt.Sprintf("%s:%d", t.Alias, t.Port)
}
