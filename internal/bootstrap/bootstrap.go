package bootstrap

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"
	"github.com/mattn/go-isatty"

	clientinadapter "github.com/haarg/bcvi/internal/modules/client/adapter/in"
	clientoutadapter "github.com/haarg/bcvi/internal/modules/client/adapter/out"
	clientservice "github.com/haarg/bcvi/internal/modules/client/service"
	clientusecase "github.com/haarg/bcvi/internal/modules/client/usecase"
	installinadapter "github.com/haarg/bcvi/internal/modules/install/adapter/in"
	installoutadapter "github.com/haarg/bcvi/internal/modules/install/adapter/out"
	installservice "github.com/haarg/bcvi/internal/modules/install/service"
	installusecase "github.com/haarg/bcvi/internal/modules/install/usecase"
	listenerinadapter "github.com/haarg/bcvi/internal/modules/listener/adapter/in"
	listeneroutadapter "github.com/haarg/bcvi/internal/modules/listener/adapter/out"
	listenerservice "github.com/haarg/bcvi/internal/modules/listener/service"
	listenerusecase "github.com/haarg/bcvi/internal/modules/listener/usecase"
	plugininadapter "github.com/haarg/bcvi/internal/modules/plugin/adapter/in"
	pluginoutadapter "github.com/haarg/bcvi/internal/modules/plugin/adapter/out"
	plugindomain "github.com/haarg/bcvi/internal/modules/plugin/domain"
	pluginservice "github.com/haarg/bcvi/internal/modules/plugin/service"
	pluginusecase "github.com/haarg/bcvi/internal/modules/plugin/usecase"
	"github.com/haarg/bcvi/internal/platform/clock"
	"github.com/haarg/bcvi/internal/platform/config"
	"github.com/haarg/bcvi/internal/platform/id"
	"github.com/haarg/bcvi/plugins/clipboard"
	"github.com/haarg/bcvi/plugins/notifydesktop"
)

// Version is stamped at release time through -ldflags.
var Version = "dev"

// App is the wired application. Port, Background and the output writers
// are invocation state: the command layer fills them in after flag
// parsing, before any dispatch operation runs.
type App struct {
	Config   config.Config
	Registry *plugindomain.Registry

	// Remote reports whether LC_BCVI marked this process as running on
	// a remote host with a back channel to a workstation listener.
	Remote bool

	ListenerCLI listenerinadapter.CLIHandler
	ClientCLI   clientinadapter.CLIHandler
	InstallCLI  installinadapter.CLIHandler
	PluginCLI   plugininadapter.CLIHandler

	Port       int
	Background bool
	Styled     bool
	Out        io.Writer
	Err        io.Writer
}

// New loads plugins, seals the registry and wires every module. A load
// failure aborts the process before any command can run, so a broken
// plugin directory never half-works.
func New(cfg config.Config) (*App, error) {
	app := &App{
		Config: cfg,
		Remote: os.Getenv("LC_BCVI") != "",
		Port:   cfg.Port,
		Styled: isatty.IsTerminal(os.Stdout.Fd()),
		Out:    os.Stdout,
		Err:    os.Stderr,
	}

	catalog := plugindomain.NewCatalog()
	for _, plugin := range []plugindomain.Plugin{notifydesktop.New(), clipboard.New()} {
		if err := catalog.Add(plugin); err != nil {
			return nil, err
		}
	}

	reg := plugindomain.NewRegistration()
	if err := registerCore(reg, app); err != nil {
		return nil, fmt.Errorf("register core capabilities: %w", err)
	}

	activations := pluginoutadapter.NewFileActivationStore(cfg.PluginDir)
	loader := pluginservice.NewLoaderService(catalog, activations)
	if err := loader.Load(context.Background(), reg); err != nil {
		return nil, err
	}

	registry, err := reg.Build()
	if err != nil {
		return nil, err
	}
	app.Registry = registry

	hostname, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("resolve hostname: %w", err)
	}
	logger := hclog.New(&hclog.LoggerOptions{
		Name:  "bcvi",
		Level: hclog.Info,
	})

	keys := listeneroutadapter.NewFileKeyStore(cfg.KeyPath, id.RandomHex{})
	serverRole := registry.WrapServer(listenerservice.NewBaseServerRole(
		listeneroutadapter.NewGvimLauncher(),
		keys,
		registry,
		hostname,
	))
	listenerSvc := listenerservice.NewListenerService(
		listeneroutadapter.NewLoopbackTCPServer(),
		listeneroutadapter.NewFileDaemonStore(cfg.ConfDir),
		keys,
		registry,
		serverRole,
		logger,
	)
	app.ListenerCLI = listenerinadapter.NewCLIHandler(listenerusecase.NewInteractor(listenerSvc))

	clientRole := registry.WrapClient(clientservice.NewBaseClientRole(os.Stdout))
	clientSvc := clientservice.NewClientService(
		clientoutadapter.NewLoopbackDialer(),
		keys,
		clientoutadapter.NewTerminalStdin(),
		clientoutadapter.NewOpenSSHConnector(),
		clientRole,
		os.Getenv("LC_BCVI"),
	)
	app.ClientCLI = clientinadapter.NewCLIHandler(clientusecase.NewInteractor(clientSvc))

	pluginUC := pluginusecase.NewInteractor(pluginservice.NewPluginService(catalog, activations, registry))
	app.PluginCLI = plugininadapter.NewCLIHandler(pluginUC)

	tracker, err := installoutadapter.NewSQLiteTracker(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open install tracker: %w", err)
	}
	rcPath, err := startupFilePath()
	if err != nil {
		return nil, err
	}
	installSvc := installservice.NewInstallService(
		installoutadapter.NewExecRunner(),
		tracker,
		installoutadapter.NewFileRCStore(rcPath),
		keys,
		registry,
		pluginUC,
		clock.SystemClock{},
		cfg.KeyPath,
		cfg.PluginDir,
	)
	app.InstallCLI = installinadapter.NewCLIHandler(installusecase.NewInteractor(installSvc))

	return app, nil
}

func startupFilePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".bashrc"), nil
}
