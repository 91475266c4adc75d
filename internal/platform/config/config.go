package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultPort is the listener port assumed when neither the command line
// nor the forwarded environment names one.
const DefaultPort = 1574

type Config struct {
	ConfDir   string
	PluginDir string
	KeyPath   string
	DBPath    string
	Port      int
}

// New resolves the configuration directory. An explicit confDir wins,
// then $BCVI_CONF_DIR, then ~/.config/bcvi.
func New(confDir string) (Config, error) {
	if confDir == "" {
		confDir = os.Getenv("BCVI_CONF_DIR")
	}
	if confDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("resolve home directory: %w", err)
		}
		confDir = filepath.Join(home, ".config", "bcvi")
	}
	return Config{
		ConfDir:   confDir,
		PluginDir: filepath.Join(confDir, "plugins"),
		KeyPath:   filepath.Join(confDir, "listener_key"),
		DBPath:    filepath.Join(confDir, "bcvi.db"),
		Port:      DefaultPort,
	}, nil
}
