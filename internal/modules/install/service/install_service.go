package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/haarg/bcvi/internal/modules/install/domain"
	"github.com/haarg/bcvi/internal/modules/install/dto"
	installout "github.com/haarg/bcvi/internal/modules/install/port/out"
	plugindomain "github.com/haarg/bcvi/internal/modules/plugin/domain"
	pluginin "github.com/haarg/bcvi/internal/modules/plugin/port/in"
	"github.com/haarg/bcvi/internal/platform/clock"
	"github.com/haarg/bcvi/internal/platform/shellrc"
)

// Remote paths are relative to the target account's home directory,
// which is where ssh and scp land without an explicit path.
const (
	remoteBinPath   = "bin/bcvi"
	remotePluginDir = ".config/bcvi/plugins"
	remoteKeyPath   = ".config/bcvi/listener_key"
	remoteStartupRC = ".bashrc"
)

// localAliasLines is the block --add-aliases maintains on the
// workstation. Only the connect wrapper belongs here; the editor
// aliases live on remote hosts, where LC_BCVI marks the back channel.
var localAliasLines = []string{
	`test -n "$(command -v bcvi)" && alias bssh='bcvi'`,
}

type InstallService struct {
	runner    installout.Runner
	tracker   installout.Tracker
	rc        installout.RCFileStore
	keys      installout.KeySource
	registry  *plugindomain.Registry
	plugins   pluginin.Usecase
	clk       clock.Clock
	keyPath   string
	pluginDir string
}

func NewInstallService(
	runner installout.Runner,
	tracker installout.Tracker,
	rc installout.RCFileStore,
	keys installout.KeySource,
	registry *plugindomain.Registry,
	plugins pluginin.Usecase,
	clk clock.Clock,
	keyPath string,
	pluginDir string,
) *InstallService {
	return &InstallService{
		runner:    runner,
		tracker:   tracker,
		rc:        rc,
		keys:      keys,
		registry:  registry,
		plugins:   plugins,
		clk:       clk,
		keyPath:   keyPath,
		pluginDir: pluginDir,
	}
}

// Install copies the running binary, the auth key and every active
// installable plugin file onto host, then rewrites the alias block in
// the remote shell startup file and records the host for --update-all.
func (s *InstallService) Install(ctx context.Context, host string) error {
	if err := domain.ValidateHost(host); err != nil {
		return err
	}
	execPath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}
	if _, err := s.keys.Ensure(ctx); err != nil {
		return fmt.Errorf("ensure auth key: %w", err)
	}

	if err := s.runner.Run(ctx, "ssh", host, "mkdir -p bin "+remotePluginDir); err != nil {
		return fmt.Errorf("prepare directories on %s: %w", host, err)
	}
	if err := s.runner.Run(ctx, "scp", "-q", execPath, host+":"+remoteBinPath); err != nil {
		return fmt.Errorf("copy binary to %s: %w", host, err)
	}
	if err := s.runner.Run(ctx, "ssh", host, "chmod 755 "+remoteBinPath); err != nil {
		return fmt.Errorf("mark binary executable on %s: %w", host, err)
	}
	if err := s.runner.Run(ctx, "scp", "-q", s.keyPath, host+":"+remoteKeyPath); err != nil {
		return fmt.Errorf("copy auth key to %s: %w", host, err)
	}
	if err := s.runner.Run(ctx, "ssh", host, "chmod 600 "+remoteKeyPath); err != nil {
		return fmt.Errorf("protect auth key on %s: %w", host, err)
	}

	files, err := s.installableFiles(ctx)
	if err != nil {
		return err
	}
	for _, name := range files {
		src := filepath.Join(s.pluginDir, name)
		if err := s.runner.Run(ctx, "scp", "-q", src, host+":"+remotePluginDir+"/"+name); err != nil {
			return fmt.Errorf("copy plugin file %s to %s: %w", name, host, err)
		}
	}

	if err := s.refreshRemoteAliases(ctx, host); err != nil {
		return err
	}
	if err := s.tracker.RecordInstall(ctx, host, s.clk.Now()); err != nil {
		return fmt.Errorf("record install of %s: %w", host, err)
	}
	return nil
}

// AddAliases rewrites the alias block in the workstation's own shell
// startup file.
func (s *InstallService) AddAliases(ctx context.Context) error {
	return s.rc.UpdateBlock(ctx, localAliasLines)
}

// UpdateAll reinstalls on every tracked host. One unreachable host does
// not stop the rest; failures come back in the per host results.
func (s *InstallService) UpdateAll(ctx context.Context) ([]dto.HostResult, error) {
	records, err := s.tracker.Hosts(ctx)
	if err != nil {
		return nil, err
	}
	results := make([]dto.HostResult, 0, len(records))
	for _, record := range records {
		result := dto.HostResult{Host: record.Host}
		if err := s.Install(ctx, record.Host); err != nil {
			result.Error = err.Error()
		}
		results = append(results, result)
	}
	return results, nil
}

func (s *InstallService) Hosts(ctx context.Context) ([]dto.HostRecord, error) {
	records, err := s.tracker.Hosts(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.HostRecord, 0, len(records))
	for _, record := range records {
		out = append(out, dto.HostRecord{
			Host:           record.Host,
			FirstInstalled: record.FirstInstalled,
			LastUpdate:     record.LastUpdate,
		})
	}
	return out, nil
}

// installableFiles maps the plugin names marked installable to their
// activation file names. Inactive plugins have no file to copy.
func (s *InstallService) installableFiles(ctx context.Context) ([]string, error) {
	infos, err := s.plugins.List(ctx)
	if err != nil {
		return nil, err
	}
	installable := map[string]bool{}
	for _, name := range s.registry.Installables() {
		installable[name] = true
	}
	var files []string
	for _, info := range infos {
		if info.Active && installable[info.Name] {
			files = append(files, info.File)
		}
	}
	return files, nil
}

func (s *InstallService) refreshRemoteAliases(ctx context.Context, host string) error {
	current, err := s.runner.Output(ctx, "ssh", host, "cat "+remoteStartupRC+" 2>/dev/null || true")
	if err != nil {
		return fmt.Errorf("read %s on %s: %w", remoteStartupRC, host, err)
	}
	updated := shellrc.RenderAliasBlock(current, s.registry.Aliases())
	if err := s.runner.RunInput(ctx, []byte(updated), "ssh", host, "cat > "+remoteStartupRC); err != nil {
		return fmt.Errorf("write %s on %s: %w", remoteStartupRC, host, err)
	}
	return nil
}
