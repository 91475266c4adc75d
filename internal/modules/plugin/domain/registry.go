package domain

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// CoreOwner attributes registry entries contributed by the application
// itself rather than by a loaded plugin.
const CoreOwner = "core"

var (
	ErrConflict        = errors.New("registration conflict")
	ErrSealed          = errors.New("registration phase is over")
	ErrUnknownDispatch = errors.New("unknown dispatch operation")
)

type ArgKind string

const (
	ArgNone   ArgKind = "none"
	ArgString ArgKind = "string"
	ArgInt    ArgKind = "int"
)

func (k ArgKind) Validate() error {
	switch k {
	case ArgNone, ArgString, ArgInt:
		return nil
	default:
		return fmt.Errorf("unknown option argument kind: %s", k)
	}
}

var optionNamePattern = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)

// OptionSpec describes one command line option. Options whose Dispatch
// field is set run the named dispatch operation and terminate the
// process instead of sending a wire command.
type OptionSpec struct {
	Name        string
	Alias       string
	Arg         ArgKind
	ArgName     string
	Dispatch    string
	Summary     string
	Description string
}

// Usage renders the option head line as it appears in help output.
func (o OptionSpec) Usage() string {
	usage := "--" + o.Name
	if o.Alias != "" {
		usage = "-" + o.Alias + ", " + usage
	}
	if o.Arg != ArgNone {
		name := o.ArgName
		if name == "" {
			name = string(o.Arg)
		}
		usage += " <" + name + ">"
	}
	return usage
}

func (o OptionSpec) Validate() error {
	if !optionNamePattern.MatchString(o.Name) {
		return fmt.Errorf("option name %q must be lowercase words joined by dashes", o.Name)
	}
	if len(o.Alias) > 1 {
		return fmt.Errorf("option %s: alias %q must be a single character", o.Name, o.Alias)
	}
	if o.Arg == "" {
		return fmt.Errorf("option %s: argument kind is required", o.Name)
	}
	if err := o.Arg.Validate(); err != nil {
		return fmt.Errorf("option %s: %w", o.Name, err)
	}
	if o.Arg == ArgNone && o.ArgName != "" {
		return fmt.Errorf("option %s: argument name given for an option taking none", o.Name)
	}
	if o.Summary == "" {
		return fmt.Errorf("option %s: summary is required", o.Name)
	}
	if o.Description == "" {
		return fmt.Errorf("option %s: description is required", o.Name)
	}
	return nil
}

// HandlerFunc runs one dispatched wire command. The role argument is
// the head of the server hook chain, so handlers that defer to role
// behaviour pick up every loaded override.
type HandlerFunc func(ctx context.Context, role ServerRole, sess Session) error

// CommandSpec describes one wire command. Name is the exact token
// matched against the request line, case sensitively.
type CommandSpec struct {
	Name        string
	Description string
	Handler     HandlerFunc
}

func (c CommandSpec) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("command name is required")
	}
	if strings.ContainsAny(c.Name, " \r\n") {
		return fmt.Errorf("command name %q must not contain spaces or line breaks", c.Name)
	}
	if c.Description == "" {
		return fmt.Errorf("command %s: description is required", c.Name)
	}
	if c.Handler == nil {
		return fmt.Errorf("command %s: handler is required", c.Name)
	}
	return nil
}

// DispatchFunc runs one client side operation named by an option's
// Dispatch field. args carries the option's own value, when it takes
// one, followed by the positional arguments.
type DispatchFunc func(ctx context.Context, args []string) error

type aliasEntry struct {
	owner string
	line  string
}

type serverHookEntry struct {
	owner string
	hook  ServerHook
}

type clientHookEntry struct {
	owner string
	hook  ClientHook
}

// Registration collects capabilities while plugins load. It is not
// safe for concurrent use; plugins load one at a time.
type Registration struct {
	owner    string
	settings map[string]string
	sealed   bool

	options      []OptionSpec
	optionOwner  map[string]string
	aliasOwner   map[string]string
	commands     []CommandSpec
	commandOwner map[string]string
	aliases      []aliasEntry
	installables []string
	ops          map[string]DispatchFunc
	opOwner      map[string]string
	serverHooks  []serverHookEntry
	clientHooks  []clientHookEntry
	hookedRole   map[string]string
}

func NewRegistration() *Registration {
	return &Registration{
		owner:        CoreOwner,
		optionOwner:  map[string]string{},
		aliasOwner:   map[string]string{},
		commandOwner: map[string]string{},
		ops:          map[string]DispatchFunc{},
		opOwner:      map[string]string{},
		hookedRole:   map[string]string{},
	}
}

// Begin switches attribution to the named plugin. The loader calls it
// once per activation before invoking the plugin's Register method.
func (r *Registration) Begin(owner string, settings map[string]string) {
	r.owner = owner
	r.settings = settings
}

// Setting returns a value from the current plugin's activation file.
func (r *Registration) Setting(key string) string {
	return r.settings[key]
}

func (r *Registration) Option(spec OptionSpec) error {
	if r.sealed {
		return ErrSealed
	}
	if err := spec.Validate(); err != nil {
		return err
	}
	if prev, ok := r.optionOwner[spec.Name]; ok {
		return fmt.Errorf("%w: option --%s from %s already registered by %s", ErrConflict, spec.Name, r.owner, prev)
	}
	if spec.Alias != "" {
		if prev, ok := r.aliasOwner[spec.Alias]; ok {
			return fmt.Errorf("%w: option alias -%s from %s already registered by %s", ErrConflict, spec.Alias, r.owner, prev)
		}
		r.aliasOwner[spec.Alias] = r.owner
	}
	r.optionOwner[spec.Name] = r.owner
	r.options = append(r.options, spec)
	return nil
}

func (r *Registration) Command(spec CommandSpec) error {
	if r.sealed {
		return ErrSealed
	}
	if err := spec.Validate(); err != nil {
		return err
	}
	if prev, ok := r.commandOwner[spec.Name]; ok {
		return fmt.Errorf("%w: command %q from %s already registered by %s", ErrConflict, spec.Name, r.owner, prev)
	}
	r.commandOwner[spec.Name] = r.owner
	r.commands = append(r.commands, spec)
	return nil
}

// Alias appends one shell alias line. Lines are never merged or
// deduplicated; emission order is registration order.
func (r *Registration) Alias(line string) error {
	if r.sealed {
		return ErrSealed
	}
	if strings.TrimSpace(line) == "" {
		return fmt.Errorf("alias line is empty")
	}
	r.aliases = append(r.aliases, aliasEntry{owner: r.owner, line: line})
	return nil
}

// Installable marks the current plugin's activation file for copying
// to remote hosts during installs. Marking twice is harmless.
func (r *Registration) Installable() error {
	if r.sealed {
		return ErrSealed
	}
	for _, name := range r.installables {
		if name == r.owner {
			return nil
		}
	}
	r.installables = append(r.installables, r.owner)
	return nil
}

func (r *Registration) DispatchOp(name string, fn DispatchFunc) error {
	if r.sealed {
		return ErrSealed
	}
	if name == "" || fn == nil {
		return fmt.Errorf("dispatch operation needs a name and a function")
	}
	if prev, ok := r.opOwner[name]; ok {
		return fmt.Errorf("%w: dispatch operation %q from %s already registered by %s", ErrConflict, name, r.owner, prev)
	}
	r.opOwner[name] = r.owner
	r.ops[name] = fn
	return nil
}

// HookServer prepends a wrapper to the server role chain. A plugin may
// hook one role at most, and only once.
func (r *Registration) HookServer(hook ServerHook) error {
	if err := r.claimHook("server", hook == nil); err != nil {
		return err
	}
	r.serverHooks = append(r.serverHooks, serverHookEntry{owner: r.owner, hook: hook})
	return nil
}

func (r *Registration) HookClient(hook ClientHook) error {
	if err := r.claimHook("client", hook == nil); err != nil {
		return err
	}
	r.clientHooks = append(r.clientHooks, clientHookEntry{owner: r.owner, hook: hook})
	return nil
}

func (r *Registration) claimHook(role string, nilHook bool) error {
	if r.sealed {
		return ErrSealed
	}
	if nilHook {
		return fmt.Errorf("%s hook from %s is nil", role, r.owner)
	}
	if prev, ok := r.hookedRole[r.owner]; ok {
		return fmt.Errorf("%w: %s already hooks the %s role", ErrConflict, r.owner, prev)
	}
	r.hookedRole[r.owner] = role
	return nil
}

// Build seals the registration and produces the immutable registry.
// Every option dispatch target must resolve to a registered operation.
func (r *Registration) Build() (*Registry, error) {
	if r.sealed {
		return nil, ErrSealed
	}
	r.sealed = true
	for _, opt := range r.options {
		if opt.Dispatch == "" {
			continue
		}
		if _, ok := r.ops[opt.Dispatch]; !ok {
			return nil, fmt.Errorf("%w: option --%s dispatches to %q", ErrUnknownDispatch, opt.Name, opt.Dispatch)
		}
	}
	handlers := make(map[string]HandlerFunc, len(r.commands))
	for _, cmd := range r.commands {
		handlers[cmd.Name] = cmd.Handler
	}
	return &Registry{
		options:      r.options,
		optionOwner:  r.optionOwner,
		commands:     r.commands,
		commandOwner: r.commandOwner,
		handlers:     handlers,
		aliases:      r.aliases,
		installables: r.installables,
		ops:          r.ops,
		serverHooks:  r.serverHooks,
		clientHooks:  r.clientHooks,
		hookedRole:   r.hookedRole,
	}, nil
}

// Registry is the finalized capability table. It is immutable and safe
// for concurrent readers.
type Registry struct {
	options      []OptionSpec
	optionOwner  map[string]string
	commands     []CommandSpec
	commandOwner map[string]string
	handlers     map[string]HandlerFunc
	aliases      []aliasEntry
	installables []string
	ops          map[string]DispatchFunc
	serverHooks  []serverHookEntry
	clientHooks  []clientHookEntry
	hookedRole   map[string]string
}

// Options returns every registered option in definition order.
func (r *Registry) Options() []OptionSpec {
	return r.options
}

// Commands returns every registered command in definition order.
func (r *Registry) Commands() []CommandSpec {
	return r.commands
}

// Handler resolves a wire command token. Lookup is exact and case
// sensitive; there is no fallback.
func (r *Registry) Handler(name string) (HandlerFunc, bool) {
	h, ok := r.handlers[name]
	return h, ok
}

// Aliases returns the shell alias lines in registration order.
func (r *Registry) Aliases() []string {
	lines := make([]string, 0, len(r.aliases))
	for _, entry := range r.aliases {
		lines = append(lines, entry.line)
	}
	return lines
}

// Installables returns the plugin names marked for remote installs.
func (r *Registry) Installables() []string {
	return r.installables
}

func (r *Registry) Dispatch(name string) (DispatchFunc, bool) {
	fn, ok := r.ops[name]
	return fn, ok
}

// WrapServer assembles the server role chain around the base
// implementation. Hooks apply in load order, so the last loaded
// plugin's wrapper ends up outermost and sees calls first.
func (r *Registry) WrapServer(base ServerRole) ServerRole {
	role := base
	for _, entry := range r.serverHooks {
		role = entry.hook(role)
	}
	return role
}

func (r *Registry) WrapClient(base ClientRole) ClientRole {
	role := base
	for _, entry := range r.clientHooks {
		role = entry.hook(role)
	}
	return role
}

// Contribution lists everything one owner registered, for plugin help
// and conflict diagnostics.
type Contribution struct {
	Owner       string
	Options     []OptionSpec
	Commands    []CommandSpec
	Aliases     []string
	Installable bool
	HookedRole  string
}

func (r *Registry) Contributions(owner string) Contribution {
	c := Contribution{Owner: owner, HookedRole: r.hookedRole[owner]}
	for _, opt := range r.options {
		if r.optionOwner[opt.Name] == owner {
			c.Options = append(c.Options, opt)
		}
	}
	for _, cmd := range r.commands {
		if r.commandOwner[cmd.Name] == owner {
			c.Commands = append(c.Commands, cmd)
		}
	}
	for _, entry := range r.aliases {
		if entry.owner == owner {
			c.Aliases = append(c.Aliases, entry.line)
		}
	}
	for _, name := range r.installables {
		if name == owner {
			c.Installable = true
		}
	}
	return c
}
