// Package clipboard copies text from remote hosts into the workstation
// clipboard. A remote `bclip` puts its input where local paste finds it.
package clipboard

import (
	"context"
	"fmt"
	"strings"
	"sync"

	xclipboard "golang.design/x/clipboard"

	plugindomain "github.com/haarg/bcvi/internal/modules/plugin/domain"
	"github.com/haarg/bcvi/internal/platform/wire"
)

type Plugin struct{}

func New() *Plugin { return &Plugin{} }

func (*Plugin) Name() string { return "clipboard" }

func (*Plugin) Summary() string {
	return "copy text from remote hosts into the workstation clipboard"
}

func (*Plugin) Register(r *plugindomain.Registration) error {
	if err := r.Command(plugindomain.CommandSpec{
		Name:        "clip",
		Description: "copy the request body into the workstation clipboard",
		Handler:     handleClip,
	}); err != nil {
		return err
	}
	if err := r.Alias(`test -n "$(command -v bcvi)" && alias bclip='bcvi -c clip --'`); err != nil {
		return err
	}
	return r.Installable()
}

// Init probes the display once; later failures repeat the same error.
var clipboardReady = sync.OnceValue(func() error {
	return xclipboard.Init()
})

func handleClip(_ context.Context, _ plugindomain.ServerRole, sess plugindomain.Session) error {
	text := clipText(sess.Request())
	if text == "" {
		return fmt.Errorf("clip: nothing to copy")
	}
	if err := clipboardReady(); err != nil {
		return fmt.Errorf("clipboard unavailable: %w", err)
	}
	xclipboard.Write(xclipboard.FmtText, []byte(text))
	return nil
}

// clipText keeps body bytes exact; trimming clipboard content would
// corrupt copied code and keys.
func clipText(req *wire.Request) string {
	if len(req.Body) > 0 {
		return string(req.Body)
	}
	return strings.Join(req.Filenames, " ")
}
