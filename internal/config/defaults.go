package config

// GetDefaultConfigTemplate returns a fully commented config template
// that helps users understand all available options
func GetDefaultConfigTemplate() string {
	return `# Blockcraft Configuration
# See 'blockcraft config -h' for commands, 'blockcraft config keys' for all options

mode: setup                           # setup | transition
preset: preset-common                 # Preset block invoked first (empty = none)
directory: .                          # Project root, relative to this project

# Logging
log_level: info                       # debug | info | warn | error
log_format: console                   # console | json

# Generation
dry_run: false                        # List changes without writing files
run_scripts: false                    # Run install/migrate/process scripts after writing
max_depth: 16                         # Maximum addon nesting
history_limit: 50                     # Runs kept in .blockcraft/history.yml (0 = off)

# Project-wide values shared by every block. In transition mode they are
# read from the git remote, package.json, .nvmrc and README.md first.
# base:
#   owner: octo                       # GitHub owner
#   repository: widget                # Repository name
#   title: Widget                     # Human readable project title (default: repository)
#   description: Makes widgets.       # One sentence description
#   node_version: 20.18.0             # Written to .nvmrc and engines.node

# Block options; listing a block selects it
blocks:
  preset-common:
    coverage: true
`
}

// GetDefaults returns the default configuration values as a map
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"mode":          "setup",
		"preset":        "",
		"directory":     ".",
		"log_level":     "info",
		"log_format":    "console",
		"dry_run":       false,
		"run_scripts":   false,
		"max_depth":     16,
		"history_limit": 50,
	}
}
