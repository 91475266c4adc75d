package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/haarg/bcvi/internal/bootstrap"
	plugindomain "github.com/haarg/bcvi/internal/modules/plugin/domain"
	"github.com/haarg/bcvi/internal/platform/config"
)

func main() {
	cfg, err := config.New("")
	if err != nil {
		fail(err)
	}
	app, err := bootstrap.New(cfg)
	if err != nil {
		fail(err)
	}
	if err := newRootCmd(app).Execute(); err != nil {
		fail(err)
	}
}

func fail(err error) {
	_, _ = fmt.Fprintln(os.Stderr, "bcvi:", err)
	os.Exit(1)
}

func newRootCmd(app *bootstrap.App) *cobra.Command {
	root := &cobra.Command{
		Use:           "bcvi",
		Short:         "Back-channel vi: reach workstation programs from remote shells",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, app, args)
		},
	}
	addRegistryFlags(root, app.Registry)
	root.SetHelpFunc(func(cmd *cobra.Command, _ []string) {
		renderHelp(cmd, app)
	})
	return root
}

// addRegistryFlags turns the registry's option list into cobra flags.
// String options accumulate so an option like --install repeats.
func addRegistryFlags(root *cobra.Command, registry *plugindomain.Registry) {
	for _, opt := range registry.Options() {
		switch opt.Arg {
		case plugindomain.ArgNone:
			root.Flags().BoolP(opt.Name, opt.Alias, false, opt.Summary)
		case plugindomain.ArgString:
			root.Flags().StringArrayP(opt.Name, opt.Alias, nil, opt.Summary)
		case plugindomain.ArgInt:
			root.Flags().IntP(opt.Name, opt.Alias, 0, opt.Summary)
		}
	}
}

func run(cmd *cobra.Command, app *bootstrap.App, args []string) error {
	ctx := cmd.Context()
	flags := cmd.Flags()

	app.Out = cmd.OutOrStdout()
	app.Err = cmd.ErrOrStderr()
	if port, err := flags.GetInt("port"); err == nil && port != 0 {
		app.Port = port
	}
	if background, err := flags.GetBool("background"); err == nil {
		app.Background = background
	}

	// The first set dispatch option in definition order runs and the
	// process ends with it; remaining options never fire.
	for _, opt := range app.Registry.Options() {
		if opt.Dispatch == "" || !flags.Changed(opt.Name) {
			continue
		}
		fn, ok := app.Registry.Dispatch(opt.Dispatch)
		if !ok {
			return fmt.Errorf("option --%s has no dispatch operation", opt.Name)
		}
		return fn(ctx, dispatchArgs(flags, opt, args))
	}

	command, commandGiven := sendCommand(flags)
	switch {
	case commandGiven || app.Remote:
		return app.ClientCLI.Send(ctx, command, args, app.Port)
	case len(args) == 1:
		return app.ClientCLI.Connect(ctx, args[0], app.Port)
	case len(args) > 1:
		return fmt.Errorf("connect to one host at a time, got %s", strings.Join(args, " "))
	default:
		return cmd.Help()
	}
}

// sendCommand resolves -c. Without it the client sends vi, the command
// every editor alias relies on.
func sendCommand(flags *pflag.FlagSet) (string, bool) {
	values, err := flags.GetStringArray("command")
	if err != nil || len(values) == 0 {
		return "vi", false
	}
	return values[len(values)-1], true
}

// dispatchArgs hands an operation its option values followed by the
// positional arguments.
func dispatchArgs(flags *pflag.FlagSet, opt plugindomain.OptionSpec, positionals []string) []string {
	var args []string
	switch opt.Arg {
	case plugindomain.ArgString:
		values, _ := flags.GetStringArray(opt.Name)
		args = append(args, values...)
	case plugindomain.ArgInt:
		value, _ := flags.GetInt(opt.Name)
		args = append(args, strconv.Itoa(value))
	}
	return append(args, positionals...)
}

func renderHelp(cmd *cobra.Command, app *bootstrap.App) {
	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "%s\n\n", cmd.Short)
	_, _ = fmt.Fprintln(out, app.Header("Usage"))
	_, _ = fmt.Fprintln(out, "  bcvi <host>                  open an ssh session with a bcvi back channel")
	_, _ = fmt.Fprintln(out, "  bcvi [options] [--] [file ...]")
	_, _ = fmt.Fprintln(out)

	_, _ = fmt.Fprintln(out, app.Header("Options"))
	_, _ = fmt.Fprintln(out, "  -h, --help")
	_, _ = fmt.Fprintln(out, "      show this help")
	for _, opt := range app.Registry.Options() {
		_, _ = fmt.Fprintf(out, "  %s\n", opt.Usage())
		for _, line := range strings.Split(opt.Description, "\n") {
			_, _ = fmt.Fprintf(out, "      %s\n", line)
		}
	}
	_, _ = fmt.Fprintln(out)

	_, _ = fmt.Fprintln(out, app.Header("Commands"))
	for _, spec := range app.Registry.Commands() {
		_, _ = fmt.Fprintf(out, "  %-14s %s\n", spec.Name, spec.Description)
	}
}
