package dto

type PluginInfo struct {
	Name    string
	Summary string
	Active  bool
	File    string
}

type OptionHelp struct {
	Name        string
	Alias       string
	ArgName     string
	Dispatch    string
	Summary     string
	Description string
}

type CommandHelp struct {
	Name        string
	Description string
}

type PluginHelp struct {
	Name        string
	Summary     string
	Active      bool
	HookedRole  string
	Installable bool
	Options     []OptionHelp
	Commands    []CommandHelp
	Aliases     []string
}
