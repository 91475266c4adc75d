package service

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"

	listenerout "github.com/haarg/bcvi/internal/modules/listener/port/out"
	plugindomain "github.com/haarg/bcvi/internal/modules/plugin/domain"
	"github.com/haarg/bcvi/internal/platform/wire"
)

// BaseServerRole is the built in server behaviour sitting at the
// bottom of the hook chain. Plugins wrap it; with no plugins loaded it
// serves requests directly.
type BaseServerRole struct {
	launcher listenerout.EditorLauncher
	keys     listenerout.KeyStore
	registry *plugindomain.Registry
	hostname string
}

func NewBaseServerRole(
	launcher listenerout.EditorLauncher,
	keys listenerout.KeyStore,
	registry *plugindomain.Registry,
	hostname string,
) *BaseServerRole {
	return &BaseServerRole{
		launcher: launcher,
		keys:     keys,
		registry: registry,
		hostname: hostname,
	}
}

// Authorize compares the request's Auth-Key header against the
// listener key. Missing header, missing key file, or a mismatch all
// deny; the comparison is constant time.
func (r *BaseServerRole) Authorize(ctx context.Context, sess plugindomain.Session) (bool, error) {
	key, err := r.keys.Read(ctx)
	if err != nil {
		return false, fmt.Errorf("read listener key: %w", err)
	}
	got := sess.Request().Header(wire.HeaderAuthKey)
	if got == "" {
		return false, nil
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(key)) == 1, nil
}

func (r *BaseServerRole) ExecuteVi(ctx context.Context, sess plugindomain.Session) error {
	return r.launcher.Edit(ctx, r.editTargets(sess.Request()), false)
}

// ExecuteViwait blocks until the editor has released the files, so the
// remote caller's own wait (an $EDITOR invocation) ends at the right
// moment.
func (r *BaseServerRole) ExecuteViwait(ctx context.Context, sess plugindomain.Session) error {
	return r.launcher.Edit(ctx, r.editTargets(sess.Request()), true)
}

// ExecuteCommandsPod answers 300 with a plain text listing of every
// command this listener accepts. The token is kept for compatibility
// with older remote installs.
func (r *BaseServerRole) ExecuteCommandsPod(ctx context.Context, sess plugindomain.Session) error {
	var doc strings.Builder
	doc.WriteString("Commands accepted by this listener:\n")
	for _, cmd := range r.registry.Commands() {
		fmt.Fprintf(&doc, "\n  %s\n      %s\n", cmd.Name, cmd.Description)
	}
	return sess.Respond(wire.Content([]byte(doc.String())))
}

// editTargets rewrites request filenames as the URLs handed to the
// editor. Files from a remote host come back as netrw scp targets,
// scp://<alias>//abs/path with the double slash netrw wants for
// absolute paths. Requests from this machine keep plain paths.
func (r *BaseServerRole) editTargets(req *wire.Request) []string {
	alias := req.Header(wire.HeaderHostAlias)
	local := alias == "" || alias == r.hostname
	targets := make([]string, 0, len(req.Filenames))
	for _, name := range req.Filenames {
		if local {
			targets = append(targets, name)
			continue
		}
		targets = append(targets, "scp://"+alias+"/"+name)
	}
	return targets
}
