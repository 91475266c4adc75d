package bootstrap_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/haarg/bcvi/internal/bootstrap"
	"github.com/haarg/bcvi/internal/platform/config"
)

func newApp(t *testing.T) *bootstrap.App {
	t.Helper()
	cfg, err := config.New("")
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	app, err := bootstrap.New(cfg)
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	return app
}

func TestNewWiresACompleteApp(t *testing.T) {
	t.Setenv("BCVI_CONF_DIR", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("LC_BCVI", "")

	app := newApp(t)

	if app.Remote {
		t.Error("Remote = true without LC_BCVI")
	}
	if app.Port != config.DefaultPort {
		t.Errorf("Port = %d, want %d", app.Port, config.DefaultPort)
	}
	if got := len(app.Registry.Options()); got < 12 {
		t.Errorf("core options = %d, want at least 12", got)
	}
	for _, name := range []string{"vi", "viwait", "commands_pod"} {
		if _, ok := app.Registry.Handler(name); !ok {
			t.Errorf("core command %s not registered", name)
		}
	}
	// Compiled in plugins stay inert without an activation file.
	for _, name := range []string{"notify", "clip"} {
		if _, ok := app.Registry.Handler(name); ok {
			t.Errorf("command %s registered without an activation", name)
		}
	}
	if got := len(app.Registry.Aliases()); got < 2 {
		t.Errorf("core alias lines = %d, want at least vi and viwait", got)
	}
}

func TestActivationFileEnablesAPlugin(t *testing.T) {
	confDir := t.TempDir()
	t.Setenv("BCVI_CONF_DIR", confDir)
	t.Setenv("HOME", t.TempDir())
	t.Setenv("LC_BCVI", "")

	pluginDir := filepath.Join(confDir, "plugins")
	if err := os.MkdirAll(pluginDir, 0o755); err != nil {
		t.Fatalf("mkdir plugin dir: %v", err)
	}
	activation := filepath.Join(pluginDir, "10-notify.yaml")
	if err := os.WriteFile(activation, []byte("plugin: notify-desktop\n"), 0o644); err != nil {
		t.Fatalf("write activation: %v", err)
	}

	app := newApp(t)

	if _, ok := app.Registry.Handler("notify"); !ok {
		t.Fatal("notify command not registered after activation")
	}
	contrib := app.Registry.Contributions("notify-desktop")
	if !contrib.Installable {
		t.Error("notify-desktop not marked installable")
	}
	if got := app.Registry.Installables(); len(got) != 1 || got[0] != "notify-desktop" {
		t.Errorf("installables = %v, want notify-desktop only", got)
	}
}

func TestMalformedActivationFailsTheWholeLoad(t *testing.T) {
	confDir := t.TempDir()
	t.Setenv("BCVI_CONF_DIR", confDir)
	t.Setenv("HOME", t.TempDir())
	t.Setenv("LC_BCVI", "")

	pluginDir := filepath.Join(confDir, "plugins")
	if err := os.MkdirAll(pluginDir, 0o755); err != nil {
		t.Fatalf("mkdir plugin dir: %v", err)
	}
	bad := filepath.Join(pluginDir, "00-broken.yaml")
	if err := os.WriteFile(bad, []byte("plugin: notify-desktop\nbogus: field\n"), 0o644); err != nil {
		t.Fatalf("write activation: %v", err)
	}

	cfg, err := config.New("")
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	if _, err := bootstrap.New(cfg); err == nil {
		t.Fatal("bootstrap succeeded with a malformed activation file")
	}
}

func TestRemoteFollowsTheEnvironment(t *testing.T) {
	t.Setenv("BCVI_CONF_DIR", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("LC_BCVI", "dev:7778")

	if app := newApp(t); !app.Remote {
		t.Error("Remote = false with LC_BCVI set")
	}
}
