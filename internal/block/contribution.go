package block

// Phase orders the scripts a generation run asks the caller to execute.
type Phase int

const (
	// PhaseInstall runs package installation.
	PhaseInstall Phase = iota
	// PhaseMigrate runs one-off migration commands (transition mode).
	PhaseMigrate
	// PhaseProcess runs formatters and fixers over the generated files.
	PhaseProcess
)

// String returns the phase name used in logs and CLI output.
func (p Phase) String() string {
	switch p {
	case PhaseInstall:
		return "install"
	case PhaseMigrate:
		return "migrate"
	case PhaseProcess:
		return "process"
	default:
		return "unknown"
	}
}

// Script is a group of commands run sequentially within one phase.
type Script struct {
	Phase    Phase    `yaml:"phase"`
	Commands []string `yaml:"commands"`
}

// CSpell is the spell-checker fragment of a contribution. Other blocks may
// add words and ignores; the config file is written only when some block
// sets Enabled.
type CSpell struct {
	Enabled bool
	Ignores []string
	Words   []string
}

// ESLint is the lint config fragment of a contribution. As with CSpell, the
// config file is written only when some block sets Enabled.
type ESLint struct {
	Enabled  bool
	Ignores  []string
	Plugins  []string
	Rules    map[string]any
	Settings map[string]any
}

// Debugger is one VS Code launch configuration.
type Debugger struct {
	Name                     string   `json:"name"`
	Type                     string   `json:"type"`
	Request                  string   `json:"request"`
	Args                     []string `json:"args,omitempty"`
	AutoAttachChildProcesses bool     `json:"autoAttachChildProcesses,omitempty"`
	Console                  string   `json:"console,omitempty"`
	Program                  string   `json:"program,omitempty"`
	SkipFiles                []string `json:"skipFiles,omitempty"`
	SmartStep                bool     `json:"smartStep,omitempty"`
}

// VSCode is the editor config fragment of a contribution.
type VSCode struct {
	Settings   map[string]any
	Extensions []string
	Debuggers  []Debugger
}

// Step is a single GitHub Actions job step.
type Step struct {
	Name string            `yaml:"name,omitempty"`
	Uses string            `yaml:"uses,omitempty"`
	Run  string            `yaml:"run,omitempty"`
	With map[string]string `yaml:"with,omitempty"`
}

// Job is a CI job. Jobs with the same name are merged step by step.
type Job struct {
	Name  string
	Steps []Step
}

// Section is a named area of the development docs that several blocks can
// append to.
type Section struct {
	Before string
	Items  []string
	After  string
}

// Contribution is the partial output of one block invocation. Every field is
// optional; the merge engine combines contributions into final artifacts.
type Contribution struct {
	// Files maps a repository-relative path to its full content.
	Files map[string]string
	// Removals lists paths that should be deleted.
	Removals []string
	// Addons are nested block invocations expanded after this block.
	Addons []Invocation
	// Scripts are commands the caller runs after writing files.
	Scripts []Script

	Package   map[string]any
	CSpell    CSpell
	ESLint    ESLint
	VSCode    VSCode
	Jobs      []Job
	Docs      map[string]Section
	Gitignore []string
}
