package domain

import (
	"fmt"
	"regexp"
	"time"

	apperrors "github.com/haarg/bcvi/internal/platform/errors"
)

// hostPattern admits ssh destinations like dev, user@build.example.com
// or 10.0.0.7. Anything the shell could reinterpret is rejected, since
// host names end up inside remote command lines.
var hostPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9@._-]*$`)

// ValidateHost rejects names unsafe to hand to ssh and scp.
func ValidateHost(host string) error {
	if !hostPattern.MatchString(host) {
		return fmt.Errorf("%w: host %q", apperrors.ErrInvalidInput, host)
	}
	return nil
}

// InstallRecord is one remote host the tool has been installed on.
type InstallRecord struct {
	Host           string
	FirstInstalled time.Time
	LastUpdate     time.Time
}
