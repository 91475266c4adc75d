package service_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/haarg/bcvi/internal/modules/install/domain"
	"github.com/haarg/bcvi/internal/modules/install/service"
	plugindomain "github.com/haarg/bcvi/internal/modules/plugin/domain"
	plugindto "github.com/haarg/bcvi/internal/modules/plugin/dto"
	apperrors "github.com/haarg/bcvi/internal/platform/errors"
	"github.com/haarg/bcvi/internal/platform/shellrc"
)

var installTime = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

// scriptedRunner records every invocation as a single command line and
// can be told to fail once a line contains failOn.
type scriptedRunner struct {
	lines   []string
	rcBody  string
	written []byte
	failOn  string
}

func (r *scriptedRunner) record(name string, args []string) (string, error) {
	line := name + " " + strings.Join(args, " ")
	r.lines = append(r.lines, line)
	if r.failOn != "" && strings.Contains(line, r.failOn) {
		return "", fmt.Errorf("scripted failure on %q", line)
	}
	return line, nil
}

func (r *scriptedRunner) Run(_ context.Context, name string, args ...string) error {
	_, err := r.record(name, args)
	return err
}

func (r *scriptedRunner) Output(_ context.Context, name string, args ...string) (string, error) {
	if _, err := r.record(name, args); err != nil {
		return "", err
	}
	return r.rcBody, nil
}

func (r *scriptedRunner) RunInput(_ context.Context, input []byte, name string, args ...string) error {
	if _, err := r.record(name, args); err != nil {
		return err
	}
	r.written = input
	return nil
}

type memoryTracker struct {
	records map[string]domain.InstallRecord
	order   []string
}

func newMemoryTracker() *memoryTracker {
	return &memoryTracker{records: map[string]domain.InstallRecord{}}
}

func (t *memoryTracker) RecordInstall(_ context.Context, host string, now time.Time) error {
	rec, ok := t.records[host]
	if !ok {
		rec = domain.InstallRecord{Host: host, FirstInstalled: now}
		t.order = append(t.order, host)
	}
	rec.LastUpdate = now
	t.records[host] = rec
	return nil
}

func (t *memoryTracker) Hosts(_ context.Context) ([]domain.InstallRecord, error) {
	out := make([]domain.InstallRecord, 0, len(t.order))
	for _, host := range t.order {
		out = append(out, t.records[host])
	}
	return out, nil
}

type memoryRC struct {
	lines []string
}

func (s *memoryRC) Path() string { return "/home/u/.bashrc" }

func (s *memoryRC) UpdateBlock(_ context.Context, lines []string) error {
	s.lines = lines
	return nil
}

type countingKeySource struct {
	calls int
}

func (k *countingKeySource) Ensure(context.Context) (string, error) {
	k.calls++
	return "k3y", nil
}

type cannedPlugins struct {
	infos []plugindto.PluginInfo
}

func (p cannedPlugins) List(context.Context) ([]plugindto.PluginInfo, error) {
	return p.infos, nil
}

func (p cannedPlugins) Help(context.Context, string) (plugindto.PluginHelp, error) {
	return plugindto.PluginHelp{}, nil
}

type fixedClock struct {
	at time.Time
}

func (c fixedClock) Now() time.Time { return c.at }

func buildRegistry(t *testing.T) *plugindomain.Registry {
	t.Helper()
	reg := plugindomain.NewRegistration()
	if err := reg.Alias(`test -n "$(command -v bcvi)" && alias vi='bcvi'`); err != nil {
		t.Fatalf("register core alias: %v", err)
	}
	reg.Begin("notify-desktop", nil)
	if err := reg.Alias(`alias bnotify='bcvi -c notify --'`); err != nil {
		t.Fatalf("register plugin alias: %v", err)
	}
	if err := reg.Installable(); err != nil {
		t.Fatalf("mark installable: %v", err)
	}
	registry, err := reg.Build()
	if err != nil {
		t.Fatalf("build registry: %v", err)
	}
	return registry
}

func newService(t *testing.T, runner *scriptedRunner, tracker *memoryTracker, rc *memoryRC, keys *countingKeySource) *service.InstallService {
	t.Helper()
	plugins := cannedPlugins{infos: []plugindto.PluginInfo{
		{Name: "notify-desktop", Summary: "desktop notifications", Active: true, File: "10-notify-desktop.yaml"},
		{Name: "clipboard", Summary: "workstation clipboard", Active: false},
	}}
	return service.NewInstallService(runner, tracker, rc, keys, buildRegistry(t), plugins,
		fixedClock{at: installTime}, "/home/u/.config/bcvi/listener_key", "/home/u/.config/bcvi/plugins")
}

func TestInstallRunsTheFullCopySequence(t *testing.T) {
	t.Parallel()

	execPath, err := os.Executable()
	if err != nil {
		t.Fatalf("os.Executable: %v", err)
	}

	runner := &scriptedRunner{}
	tracker := newMemoryTracker()
	keys := &countingKeySource{}
	svc := newService(t, runner, tracker, &memoryRC{}, keys)

	if err := svc.Install(context.Background(), "dev"); err != nil {
		t.Fatalf("Install: %v", err)
	}

	want := []string{
		"ssh dev mkdir -p bin .config/bcvi/plugins",
		"scp -q " + execPath + " dev:bin/bcvi",
		"ssh dev chmod 755 bin/bcvi",
		"scp -q /home/u/.config/bcvi/listener_key dev:.config/bcvi/listener_key",
		"ssh dev chmod 600 .config/bcvi/listener_key",
		"scp -q /home/u/.config/bcvi/plugins/10-notify-desktop.yaml dev:.config/bcvi/plugins/10-notify-desktop.yaml",
		"ssh dev cat .bashrc 2>/dev/null || true",
		"ssh dev cat > .bashrc",
	}
	if len(runner.lines) != len(want) {
		t.Fatalf("command lines = %q, want %d entries", runner.lines, len(want))
	}
	for i, line := range want {
		if runner.lines[i] != line {
			t.Errorf("command %d = %q, want %q", i, runner.lines[i], line)
		}
	}
	if keys.calls != 1 {
		t.Errorf("key Ensure calls = %d, want 1", keys.calls)
	}

	written := string(runner.written)
	for _, fragment := range []string{shellrc.BlockStart, shellrc.BlockEnd, "alias vi='bcvi'", "alias bnotify="} {
		if !strings.Contains(written, fragment) {
			t.Errorf("remote startup file missing %q:\n%s", fragment, written)
		}
	}

	rec, ok := tracker.records["dev"]
	if !ok {
		t.Fatal("install was not recorded")
	}
	if !rec.FirstInstalled.Equal(installTime) || !rec.LastUpdate.Equal(installTime) {
		t.Errorf("record = %+v, want both stamps at %v", rec, installTime)
	}
}

func TestInstallRejectsABadHostName(t *testing.T) {
	t.Parallel()

	runner := &scriptedRunner{}
	svc := newService(t, runner, newMemoryTracker(), &memoryRC{}, &countingKeySource{})

	err := svc.Install(context.Background(), "dev;rm -rf /")
	if !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("Install = %v, want ErrInvalidInput", err)
	}
	if len(runner.lines) != 0 {
		t.Errorf("commands ran for a rejected host: %q", runner.lines)
	}
}

func TestInstallStopsWhenACopyFails(t *testing.T) {
	t.Parallel()

	runner := &scriptedRunner{failOn: "dev:bin/bcvi"}
	tracker := newMemoryTracker()
	svc := newService(t, runner, tracker, &memoryRC{}, &countingKeySource{})

	err := svc.Install(context.Background(), "dev")
	if err == nil || !strings.Contains(err.Error(), "copy binary to dev") {
		t.Fatalf("Install = %v, want copy failure", err)
	}
	if len(tracker.records) != 0 {
		t.Errorf("failed install was recorded: %+v", tracker.records)
	}
}

func TestRemoteAliasBlockReplacesThePreviousOne(t *testing.T) {
	t.Parallel()

	runner := &scriptedRunner{rcBody: "export PATH=$HOME/bin:$PATH\n" +
		shellrc.BlockStart + "\nalias vi='stale'\n" + shellrc.BlockEnd + "\nstty -ixon\n"}
	svc := newService(t, runner, newMemoryTracker(), &memoryRC{}, &countingKeySource{})

	if err := svc.Install(context.Background(), "dev"); err != nil {
		t.Fatalf("Install: %v", err)
	}

	written := string(runner.written)
	if strings.Count(written, shellrc.BlockStart) != 1 {
		t.Fatalf("want exactly one alias block:\n%s", written)
	}
	if strings.Contains(written, "stale") {
		t.Errorf("old block content survived:\n%s", written)
	}
	for _, keep := range []string{"export PATH=$HOME/bin:$PATH", "stty -ixon"} {
		if !strings.Contains(written, keep) {
			t.Errorf("unmanaged line %q was lost:\n%s", keep, written)
		}
	}
}

func TestAddAliasesWritesTheConnectWrapper(t *testing.T) {
	t.Parallel()

	rc := &memoryRC{}
	svc := newService(t, &scriptedRunner{}, newMemoryTracker(), rc, &countingKeySource{})

	if err := svc.AddAliases(context.Background()); err != nil {
		t.Fatalf("AddAliases: %v", err)
	}
	if len(rc.lines) != 1 || !strings.Contains(rc.lines[0], "alias bssh='bcvi'") {
		t.Fatalf("local alias lines = %q, want the bssh wrapper", rc.lines)
	}
	for _, line := range rc.lines {
		if strings.Contains(line, "alias vi=") {
			t.Errorf("editor alias leaked into the local block: %q", line)
		}
	}
}

func TestUpdateAllContinuesPastFailures(t *testing.T) {
	t.Parallel()

	tracker := newMemoryTracker()
	ctx := context.Background()
	earlier := installTime.Add(-24 * time.Hour)
	if err := tracker.RecordInstall(ctx, "alpha", earlier); err != nil {
		t.Fatalf("seed tracker: %v", err)
	}
	if err := tracker.RecordInstall(ctx, "beta", earlier); err != nil {
		t.Fatalf("seed tracker: %v", err)
	}

	runner := &scriptedRunner{failOn: "alpha:bin/bcvi"}
	svc := newService(t, runner, tracker, &memoryRC{}, &countingKeySource{})

	results, err := svc.UpdateAll(ctx)
	if err != nil {
		t.Fatalf("UpdateAll: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %+v, want 2 entries", results)
	}
	if results[0].Host != "alpha" || results[0].Error == "" {
		t.Errorf("alpha result = %+v, want a recorded failure", results[0])
	}
	if results[1].Host != "beta" || results[1].Error != "" {
		t.Errorf("beta result = %+v, want success", results[1])
	}
	if got := tracker.records["beta"].LastUpdate; !got.Equal(installTime) {
		t.Errorf("beta LastUpdate = %v, want %v", got, installTime)
	}
	if got := tracker.records["alpha"].LastUpdate; !got.Equal(earlier) {
		t.Errorf("alpha LastUpdate = %v, want untouched %v", got, earlier)
	}
}

func TestHostsReturnsTrackedRecords(t *testing.T) {
	t.Parallel()

	tracker := newMemoryTracker()
	ctx := context.Background()
	if err := tracker.RecordInstall(ctx, "dev", installTime); err != nil {
		t.Fatalf("seed tracker: %v", err)
	}
	svc := newService(t, &scriptedRunner{}, tracker, &memoryRC{}, &countingKeySource{})

	hosts, err := svc.Hosts(ctx)
	if err != nil {
		t.Fatalf("Hosts: %v", err)
	}
	if len(hosts) != 1 || hosts[0].Host != "dev" || !hosts[0].FirstInstalled.Equal(installTime) {
		t.Fatalf("hosts = %+v, want the seeded record", hosts)
	}
}
