package service_test

import (
	"bytes"
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/haarg/bcvi/internal/modules/listener/domain"
	"github.com/haarg/bcvi/internal/modules/listener/service"
	plugindomain "github.com/haarg/bcvi/internal/modules/plugin/domain"
	"github.com/haarg/bcvi/internal/platform/wire"
)

type fixedKeys struct {
	key string
	err error
}

func (k fixedKeys) Ensure(context.Context) (string, error) { return k.key, k.err }

func (k fixedKeys) Read(context.Context) (string, error) { return k.key, k.err }

type recordingLauncher struct {
	calls   int
	targets []string
	wait    bool
	err     error
}

func (l *recordingLauncher) Edit(_ context.Context, targets []string, wait bool) error {
	l.calls++
	l.targets = targets
	l.wait = wait
	return l.err
}

func newSession(command string, filenames []string, headers map[string]string) (*domain.ConnSession, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	req := &wire.Request{Command: command, Filenames: filenames, Headers: headers}
	return domain.NewConnSession(req, buf), buf
}

func emptyRegistry(t *testing.T) *plugindomain.Registry {
	t.Helper()
	registry, err := plugindomain.NewRegistration().Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return registry
}

func TestExecuteViBuildsRemoteTargets(t *testing.T) {
	t.Parallel()

	launcher := &recordingLauncher{}
	role := service.NewBaseServerRole(launcher, fixedKeys{key: "k"}, emptyRegistry(t), "workstation")
	sess, _ := newSession("vi", []string{"/etc/motd", "/var/log/syslog"}, map[string]string{
		wire.HeaderHostAlias: "dev",
	})

	if err := role.ExecuteVi(context.Background(), sess); err != nil {
		t.Fatalf("ExecuteVi() error = %v", err)
	}
	want := []string{"scp://dev//etc/motd", "scp://dev//var/log/syslog"}
	if !reflect.DeepEqual(launcher.targets, want) {
		t.Fatalf("targets = %v, want %v", launcher.targets, want)
	}
	if launcher.wait {
		t.Fatalf("ExecuteVi waited for the editor")
	}
}

func TestExecuteViKeepsLocalPathsPlain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		headers map[string]string
	}{
		{name: "alias matches hostname", headers: map[string]string{wire.HeaderHostAlias: "workstation"}},
		{name: "no alias header", headers: nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			launcher := &recordingLauncher{}
			role := service.NewBaseServerRole(launcher, fixedKeys{key: "k"}, emptyRegistry(t), "workstation")
			sess, _ := newSession("vi", []string{"/home/user/notes.txt"}, tc.headers)

			if err := role.ExecuteVi(context.Background(), sess); err != nil {
				t.Fatalf("ExecuteVi() error = %v", err)
			}
			want := []string{"/home/user/notes.txt"}
			if !reflect.DeepEqual(launcher.targets, want) {
				t.Fatalf("targets = %v, want %v", launcher.targets, want)
			}
		})
	}
}

func TestExecuteViwaitBlocksOnTheEditor(t *testing.T) {
	t.Parallel()

	launcher := &recordingLauncher{}
	role := service.NewBaseServerRole(launcher, fixedKeys{key: "k"}, emptyRegistry(t), "workstation")
	sess, _ := newSession("viwait", []string{"/tmp/COMMIT_EDITMSG"}, map[string]string{
		wire.HeaderHostAlias: "dev",
	})

	if err := role.ExecuteViwait(context.Background(), sess); err != nil {
		t.Fatalf("ExecuteViwait() error = %v", err)
	}
	if !launcher.wait {
		t.Fatalf("ExecuteViwait did not wait for the editor")
	}
}

func TestExecuteCommandsPodListsRegisteredCommands(t *testing.T) {
	t.Parallel()

	reg := plugindomain.NewRegistration()
	noop := func(context.Context, plugindomain.ServerRole, plugindomain.Session) error { return nil }
	for _, spec := range []plugindomain.CommandSpec{
		{Name: "vi", Description: "Open the named files in the workstation editor.", Handler: noop},
		{Name: "commands_pod", Description: "Describe every command the listener accepts.", Handler: noop},
	} {
		if err := reg.Command(spec); err != nil {
			t.Fatalf("Command(%s) error = %v", spec.Name, err)
		}
	}
	registry, err := reg.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	role := service.NewBaseServerRole(&recordingLauncher{}, fixedKeys{key: "k"}, registry, "workstation")
	sess, buf := newSession("commands_pod", nil, nil)

	if err := role.ExecuteCommandsPod(context.Background(), sess); err != nil {
		t.Fatalf("ExecuteCommandsPod() error = %v", err)
	}
	resp, err := wire.NewParser(bytes.NewReader(buf.Bytes())).ReadResponse()
	if err != nil {
		t.Fatalf("ReadResponse() error = %v", err)
	}
	if resp.Status != wire.StatusResponseFollows {
		t.Fatalf("status = %d, want %d", resp.Status, wire.StatusResponseFollows)
	}
	body := string(resp.Body)
	for _, want := range []string{"vi", "commands_pod", "workstation editor"} {
		if !strings.Contains(body, want) {
			t.Fatalf("body missing %q:\n%s", want, body)
		}
	}
}

func TestAuthorize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		header  string
		allowed bool
	}{
		{name: "matching key", header: "s3cret", allowed: true},
		{name: "wrong key", header: "guess", allowed: false},
		{name: "missing header", header: "", allowed: false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			role := service.NewBaseServerRole(&recordingLauncher{}, fixedKeys{key: "s3cret"}, emptyRegistry(t), "workstation")
			headers := map[string]string{}
			if tc.header != "" {
				headers[wire.HeaderAuthKey] = tc.header
			}
			sess, _ := newSession("vi", nil, headers)

			ok, err := role.Authorize(context.Background(), sess)
			if err != nil {
				t.Fatalf("Authorize() error = %v", err)
			}
			if ok != tc.allowed {
				t.Fatalf("Authorize() = %v, want %v", ok, tc.allowed)
			}
		})
	}
}

func TestAuthorizeFailsWithoutKeyFile(t *testing.T) {
	t.Parallel()

	role := service.NewBaseServerRole(&recordingLauncher{}, fixedKeys{err: errors.New("no key file")}, emptyRegistry(t), "workstation")
	sess, _ := newSession("vi", nil, map[string]string{wire.HeaderAuthKey: "anything"})

	if _, err := role.Authorize(context.Background(), sess); err == nil {
		t.Fatalf("Authorize() succeeded without a readable key")
	}
}
