package clipboard

import (
	"strings"
	"testing"

	plugindomain "github.com/haarg/bcvi/internal/modules/plugin/domain"
	"github.com/haarg/bcvi/internal/platform/wire"
)

func TestRegisterContributesCommandAliasAndInstallable(t *testing.T) {
	t.Parallel()

	reg := plugindomain.NewRegistration()
	plugin := New()
	reg.Begin(plugin.Name(), nil)
	if err := plugin.Register(reg); err != nil {
		t.Fatalf("Register: %v", err)
	}
	registry, err := reg.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if _, ok := registry.Handler("clip"); !ok {
		t.Error("clip command not registered")
	}
	contrib := registry.Contributions("clipboard")
	if len(contrib.Commands) != 1 || contrib.Commands[0].Name != "clip" {
		t.Errorf("commands = %+v, want just clip", contrib.Commands)
	}
	if len(contrib.Aliases) != 1 {
		t.Fatalf("aliases = %q, want one line", contrib.Aliases)
	}
	if want := `alias bclip='bcvi -c clip --'`; !strings.Contains(contrib.Aliases[0], want) {
		t.Errorf("alias line %q missing %q", contrib.Aliases[0], want)
	}
	if !contrib.Installable {
		t.Error("plugin not marked installable")
	}
	if contrib.HookedRole != "" {
		t.Errorf("HookedRole = %q, want none", contrib.HookedRole)
	}
}

func TestClipTextPrefersTheBodyUntrimmed(t *testing.T) {
	t.Parallel()

	req := &wire.Request{
		Command:   "clip",
		Filenames: []string{"ignored"},
		Body:      []byte("  spacing matters  \n"),
	}
	if got := clipText(req); got != "  spacing matters  \n" {
		t.Errorf("clipText = %q, want the body byte for byte", got)
	}

	req = &wire.Request{Command: "clip", Filenames: []string{"two", "words"}}
	if got := clipText(req); got != "two words" {
		t.Errorf("clipText = %q, want joined arguments", got)
	}
}
