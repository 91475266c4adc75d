package bootstrap

import (
	"context"

	plugindomain "github.com/haarg/bcvi/internal/modules/plugin/domain"
)

// coreAliases is the alias block installed on remote hosts. Every line
// guards on bcvi being present so a stale block cannot break a shell.
var coreAliases = []string{
	`test -n "$(command -v bcvi)" && alias vi='bcvi'`,
	`test -n "$(command -v bcvi)" && alias viwait='bcvi -c viwait'`,
	`test -n "$(command -v bcvi)" && alias suvi='SUDO_EDITOR="bcvi -c viwait" sudoedit'`,
}

// registerCore claims the application's own options, commands, aliases
// and dispatch operations before any plugin loads, so conflicts report
// the plugin as the latecomer.
func registerCore(r *plugindomain.Registration, app *App) error {
	options := []plugindomain.OptionSpec{
		{
			Name: "version", Alias: "v", Arg: plugindomain.ArgNone, Dispatch: "version",
			Summary:     "print the version and exit",
			Description: "Prints the bcvi version string and exits.",
		},
		{
			Name: "listener", Alias: "l", Arg: plugindomain.ArgNone, Dispatch: "run-listener",
			Summary:     "run the workstation listener",
			Description: "Runs the listener that accepts connections from remote bcvi clients. Combine with --background to run it as a daemon.",
		},
		{
			Name: "background", Alias: "b", Arg: plugindomain.ArgNone,
			Summary:     "daemonize the listener",
			Description: "With --listener, re-executes the listener as a background process with a pidfile and a log file instead of holding this terminal.",
		},
		{
			Name: "port", Alias: "p", Arg: plugindomain.ArgInt, ArgName: "port",
			Summary:     "listener port",
			Description: "TCP port the listener binds and clients connect to. Defaults to 1574.",
		},
		{
			Name: "command", Alias: "c", Arg: plugindomain.ArgString, ArgName: "name",
			Summary:     "wire command to send",
			Description: "Sends the named command to the workstation listener instead of the default vi. Arguments after -- travel with the command.",
		},
		{
			Name: "stop-listener", Arg: plugindomain.ArgNone, Dispatch: "stop-listener",
			Summary:     "stop the background listener",
			Description: "Stops the background listener recorded in the pidfile.",
		},
		{
			Name: "listener-status", Arg: plugindomain.ArgNone, Dispatch: "listener-status",
			Summary:     "show listener status",
			Description: "Reports whether the listener is running, its pid and port, and the hosts bcvi has been installed on.",
		},
		{
			Name: "install", Arg: plugindomain.ArgString, ArgName: "host", Dispatch: "install",
			Summary:     "install bcvi on a remote host",
			Description: "Copies the bcvi binary, the auth key and every installable plugin file to the host over scp, then adds the alias block to its shell startup file. Repeat the option or add positional host arguments to install on several hosts.",
		},
		{
			Name: "add-aliases", Arg: plugindomain.ArgNone, Dispatch: "add-aliases",
			Summary:     "add the alias block to this shell",
			Description: "Maintains the bcvi alias block in the local shell startup file.",
		},
		{
			Name: "update-all", Arg: plugindomain.ArgNone, Dispatch: "update-all",
			Summary:     "reinstall on every known host",
			Description: "Repeats the install on every host recorded by earlier --install runs, and reports each host's outcome.",
		},
		{
			Name: "plugin-help", Arg: plugindomain.ArgString, ArgName: "name", Dispatch: "plugin-help",
			Summary:     "describe one plugin",
			Description: "Shows what the named plugin contributes: options, commands, aliases and whether it installs on remote hosts.",
		},
		{
			Name: "list-plugins", Arg: plugindomain.ArgNone, Dispatch: "list-plugins",
			Summary:     "list compiled-in plugins",
			Description: "Lists every plugin compiled into this binary and whether an activation file in the plugin directory enables it.",
		},
	}
	for _, opt := range options {
		if err := r.Option(opt); err != nil {
			return err
		}
	}

	commands := []plugindomain.CommandSpec{
		{Name: "vi", Description: "open the files in the workstation editor", Handler: execVi},
		{Name: "viwait", Description: "open the files and block until the editor is closed", Handler: execViwait},
		{Name: "commands_pod", Description: "list the commands this listener accepts", Handler: execCommandsPod},
	}
	for _, spec := range commands {
		if err := r.Command(spec); err != nil {
			return err
		}
	}

	for _, line := range coreAliases {
		if err := r.Alias(line); err != nil {
			return err
		}
	}

	ops := []struct {
		name string
		fn   plugindomain.DispatchFunc
	}{
		{"version", app.opVersion},
		{"run-listener", app.opRunListener},
		{"stop-listener", app.opStopListener},
		{"listener-status", app.opListenerStatus},
		{"install", app.opInstall},
		{"add-aliases", app.opAddAliases},
		{"update-all", app.opUpdateAll},
		{"plugin-help", app.opPluginHelp},
		{"list-plugins", app.opListPlugins},
	}
	for _, op := range ops {
		if err := r.DispatchOp(op.name, op.fn); err != nil {
			return err
		}
	}
	return nil
}

// The core handlers delegate through the role argument, which is the
// head of the hook chain, so a plugin override of ExecuteVi serves vi
// requests even though the core registered the command.
func execVi(ctx context.Context, role plugindomain.ServerRole, sess plugindomain.Session) error {
	return role.ExecuteVi(ctx, sess)
}

func execViwait(ctx context.Context, role plugindomain.ServerRole, sess plugindomain.Session) error {
	return role.ExecuteViwait(ctx, sess)
}

func execCommandsPod(ctx context.Context, role plugindomain.ServerRole, sess plugindomain.Session) error {
	return role.ExecuteCommandsPod(ctx, sess)
}
