package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	plugindto "github.com/haarg/bcvi/internal/modules/plugin/dto"
)

var headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#74c7ec")).Bold(true)

// Header styles a section heading when stdout is a terminal and falls
// back to plain text when output is piped.
func (a *App) Header(text string) string {
	if !a.Styled {
		return text + ":"
	}
	return headerStyle.Render(text)
}

func (a *App) opVersion(_ context.Context, _ []string) error {
	_, _ = fmt.Fprintf(a.Out, "bcvi %s\n", Version)
	return nil
}

func (a *App) opRunListener(ctx context.Context, _ []string) error {
	if a.Background {
		if err := a.ListenerCLI.Start(ctx, a.Port); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(a.Out, "listener started on port %d\n", a.Port)
		return nil
	}
	return a.ListenerCLI.Run(ctx, a.Port)
}

func (a *App) opStopListener(ctx context.Context, _ []string) error {
	if err := a.ListenerCLI.Stop(ctx); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(a.Out, "listener stopped")
	return nil
}

func (a *App) opListenerStatus(ctx context.Context, _ []string) error {
	status, err := a.ListenerCLI.Status(ctx, a.Port)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(a.Out, a.Header("Listener"))
	_, _ = fmt.Fprintf(a.Out, "running=%t pid=%d port=%d reachable=%t\n",
		status.Running, status.PID, status.Port, status.Reachable)
	_, _ = fmt.Fprintf(a.Out, "log=%s\n", status.LogPath)

	hosts, err := a.InstallCLI.Hosts(ctx)
	if err != nil {
		return err
	}
	if len(hosts) == 0 {
		return nil
	}
	_, _ = fmt.Fprintln(a.Out, a.Header("Installed hosts"))
	for _, host := range hosts {
		_, _ = fmt.Fprintf(a.Out, "%s\tinstalled=%s updated=%s\n",
			host.Host,
			host.FirstInstalled.Format(time.RFC3339),
			host.LastUpdate.Format(time.RFC3339))
	}
	return nil
}

func (a *App) opInstall(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("--install needs a host name")
	}
	for _, host := range args {
		if err := a.InstallCLI.Install(ctx, host); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(a.Out, "installed on %s\n", host)
	}
	return nil
}

func (a *App) opAddAliases(ctx context.Context, _ []string) error {
	if err := a.InstallCLI.AddAliases(ctx); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(a.Out, "alias block updated")
	return nil
}

func (a *App) opUpdateAll(ctx context.Context, _ []string) error {
	results, err := a.InstallCLI.UpdateAll(ctx)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		_, _ = fmt.Fprintln(a.Out, "no hosts recorded, run --install first")
		return nil
	}
	failed := 0
	for _, result := range results {
		marker := "OK"
		if result.Error != "" {
			marker = "FAIL"
			failed++
		}
		_, _ = fmt.Fprintf(a.Out, "[%s] %s", marker, result.Host)
		if result.Error != "" {
			_, _ = fmt.Fprintf(a.Out, ": %s", result.Error)
		}
		_, _ = fmt.Fprintln(a.Out)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d hosts failed", failed, len(results))
	}
	return nil
}

func (a *App) opPluginHelp(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("--plugin-help needs a plugin name")
	}
	help, err := a.PluginCLI.Help(ctx, args[0])
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(a.Out, a.Header(help.Name))
	_, _ = fmt.Fprintln(a.Out, help.Summary)
	_, _ = fmt.Fprintf(a.Out, "active=%t installable=%t", help.Active, help.Installable)
	if help.HookedRole != "" {
		_, _ = fmt.Fprintf(a.Out, " hooks=%s", help.HookedRole)
	}
	_, _ = fmt.Fprintln(a.Out)

	if len(help.Options) > 0 {
		_, _ = fmt.Fprintln(a.Out, a.Header("Options"))
		for _, opt := range help.Options {
			_, _ = fmt.Fprintf(a.Out, "  %s\n      %s\n", optionHelpUsage(opt), opt.Summary)
		}
	}
	if len(help.Commands) > 0 {
		_, _ = fmt.Fprintln(a.Out, a.Header("Commands"))
		for _, cmd := range help.Commands {
			_, _ = fmt.Fprintf(a.Out, "  %-14s %s\n", cmd.Name, cmd.Description)
		}
	}
	if len(help.Aliases) > 0 {
		_, _ = fmt.Fprintln(a.Out, a.Header("Aliases"))
		for _, line := range help.Aliases {
			_, _ = fmt.Fprintf(a.Out, "  %s\n", line)
		}
	}
	return nil
}

func optionHelpUsage(opt plugindto.OptionHelp) string {
	usage := "--" + opt.Name
	if opt.Alias != "" {
		usage = "-" + opt.Alias + ", " + usage
	}
	if opt.ArgName != "" {
		usage += " <" + opt.ArgName + ">"
	}
	return usage
}

func (a *App) opListPlugins(ctx context.Context, _ []string) error {
	infos, err := a.PluginCLI.List(ctx)
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		_, _ = fmt.Fprintln(a.Out, "no plugins compiled in")
		return nil
	}
	for _, info := range infos {
		_, _ = fmt.Fprintf(a.Out, "%-16s active=%-5t %s", info.Name, info.Active, info.Summary)
		if info.File != "" {
			_, _ = fmt.Fprintf(a.Out, " (%s)", info.File)
		}
		_, _ = fmt.Fprintln(a.Out)
	}
	return nil
}
