package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"text/tabwriter"

	"github.com/ariel-frischer/blockcraft/internal/config"
	clierrors "github.com/ariel-frischer/blockcraft/internal/errors"
	"github.com/ariel-frischer/blockcraft/internal/output"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const (
	flagForce = "force"
	flagUser  = "user"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage blockcraft configuration",
		Long: `Configuration is layered, later layers winning:

  1. built-in defaults
  2. user config (~/.config/blockcraft/config.yml)
  3. project config (.blockcraft/config.yml, .yaml, .json or .hcl)
  4. BLOCKCRAFT_* environment variables (BLOCKCRAFT_BLOCKS__VITEST__COVERAGE=true)`,
		GroupID: GroupSetup,
	}
	cmd.AddCommand(newConfigInitCmd(), newConfigShowCmd(), newConfigSetCmd(), newConfigKeysCmd())
	return cmd
}

// configTarget resolves the file written by init and set.
func configTarget(cmd *cobra.Command) (string, error) {
	if user, _ := cmd.Flags().GetBool(flagUser); user {
		path, err := config.UserConfigPath()
		if err != nil {
			return "", clierrors.Wrap(err, clierrors.Prerequisite, "Set XDG_CONFIG_HOME or HOME")
		}
		return path, nil
	}
	if path, _ := cmd.Flags().GetString(flagConfig); path != "" {
		return path, nil
	}
	dir, _ := cmd.Flags().GetString(flagDirectory)
	return config.ProjectConfigPath(dir), nil
}

func newConfigInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a commented config template",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := configTarget(cmd)
			if err != nil {
				return err
			}
			force, _ := cmd.Flags().GetBool(flagForce)
			if _, err := os.Stat(path); err == nil && !force {
				return clierrors.NewArgumentError(
					fmt.Sprintf("%s already exists", path),
					"Pass --force to overwrite it",
				)
			}
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return fmt.Errorf("creating config directory: %w", err)
			}
			if err := os.WriteFile(path, []byte(config.GetDefaultConfigTemplate()), 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", path, err)
			}
			output.PrintChange(cmd.OutOrStdout(), "created", path)
			return nil
		},
	}
	cmd.Flags().Bool(flagForce, false, "Overwrite an existing config")
	cmd.Flags().Bool(flagUser, false, "Write the user config instead of the project config")
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the merged configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, _ := cmd.Flags().GetString(flagDirectory)
			path, _ := cmd.Flags().GetString(flagConfig)
			k, err := config.Layers(config.LoadOptions{
				ProjectDir:        dir,
				ProjectConfigPath: path,
				WarningWriter:     cmd.ErrOrStderr(),
			})
			if err != nil {
				return clierrors.InvalidConfig(err)
			}
			data, err := yaml.Marshal(k.Raw())
			if err != nil {
				return fmt.Errorf("encoding configuration: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func newConfigSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set one configuration value",
		Example: `  blockcraft config set preset preset-minimal
  blockcraft config set blocks.vitest.coverage true
  blockcraft config set --user log_level debug`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]
			if _, err := config.ValidateValue(key, value); err != nil {
				return clierrors.NewArgumentError(err.Error(), "List accepted keys with: blockcraft config keys")
			}
			path, err := configTarget(cmd)
			if err != nil {
				return err
			}
			if err := config.SetConfigValue(path, key, value); err != nil {
				return clierrors.InvalidConfig(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s (%s)\n", key, value, path)
			return nil
		},
	}
	cmd.Flags().Bool(flagUser, false, "Write the user config instead of the project config")
	return cmd
}

func newConfigKeysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "List known configuration keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			keys := make([]string, 0, len(config.KnownKeys))
			for key := range config.KnownKeys {
				keys = append(keys, key)
			}
			sort.Strings(keys)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			for _, key := range keys {
				schema := config.KnownKeys[key]
				fmt.Fprintf(w, "%s\t%s\t%v\t%s\n", key, schema.Type, schema.Default, schema.Description)
			}
			fmt.Fprintf(w, "base.<key>\tinferred\t\tProject-wide value such as owner or repository\n")
			fmt.Fprintf(w, "blocks.<name>.<option>\tinferred\t\tOption of one block, see: blockcraft blocks <name>\n")
			return w.Flush()
		},
	}
}
