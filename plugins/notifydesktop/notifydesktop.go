// Package notifydesktop surfaces messages from remote hosts as desktop
// notifications. A remote process pipes text to `bcvi -c notify --` and
// the workstation shows it through org.freedesktop.Notifications.
package notifydesktop

import (
	"context"
	"fmt"
	"strings"

	"github.com/godbus/dbus/v5"

	plugindomain "github.com/haarg/bcvi/internal/modules/plugin/domain"
	"github.com/haarg/bcvi/internal/platform/wire"
)

type Plugin struct{}

func New() *Plugin { return &Plugin{} }

func (*Plugin) Name() string { return "notify-desktop" }

func (*Plugin) Summary() string {
	return "show messages from remote hosts as desktop notifications"
}

func (*Plugin) Register(r *plugindomain.Registration) error {
	if err := r.Command(plugindomain.CommandSpec{
		Name:        "notify",
		Description: "show a desktop notification with the request body as the message",
		Handler:     handleNotify,
	}); err != nil {
		return err
	}
	if err := r.Alias(`test -n "$(command -v bcvi)" && alias bnotify='bcvi -c notify --'`); err != nil {
		return err
	}
	return r.Installable()
}

func handleNotify(ctx context.Context, _ plugindomain.ServerRole, sess plugindomain.Session) error {
	summary, message := composeNotification(sess.Request())
	return sendNotification(ctx, summary, message)
}

// composeNotification prefers the piped body; without one the command
// arguments become the message, so `bnotify deploy finished` works.
func composeNotification(req *wire.Request) (summary, message string) {
	summary = "bcvi"
	if alias := req.Header(wire.HeaderHostAlias); alias != "" {
		summary = "bcvi: " + alias
	}
	message = strings.TrimSpace(string(req.Body))
	if message == "" {
		message = strings.Join(req.Filenames, " ")
	}
	if message == "" {
		message = "(no message)"
	}
	return summary, message
}

func sendNotification(ctx context.Context, summary, message string) error {
	conn, err := dbus.SessionBus()
	if err != nil {
		return fmt.Errorf("connect session bus: %w", err)
	}
	obj := conn.Object("org.freedesktop.Notifications", "/org/freedesktop/Notifications")
	call := obj.CallWithContext(ctx, "org.freedesktop.Notifications.Notify", 0,
		"bcvi",     // application name
		uint32(0),  // never replaces an earlier notification
		"",         // no icon
		summary,
		message,
		[]string{}, // no actions
		map[string]dbus.Variant{},
		int32(-1), // server default expiry
	)
	if call.Err != nil {
		return fmt.Errorf("send notification: %w", call.Err)
	}
	return nil
}
