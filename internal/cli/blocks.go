package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/ariel-frischer/blockcraft/internal/block"
	"github.com/ariel-frischer/blockcraft/internal/blocks"
	"github.com/ariel-frischer/blockcraft/internal/registry"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newBlocksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "blocks [name]",
		Short: "List blocks or show one block's options",
		Long: `Without arguments, blocks lists every available block.

With a block name, it prints the options the block accepts with their default
values, in the form they take under blocks.<name> in .blockcraft/config.yml.`,
		Example: `  blockcraft blocks
  blockcraft blocks vitest`,
		GroupID: GroupInspect,
		Args:    cobra.MaximumNArgs(1),
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return blocks.NewRegistry().Names(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := blocks.NewRegistry()
			if len(args) == 0 {
				return listBlocks(cmd, reg)
			}
			return showBlock(cmd, reg, args[0])
		},
	}
}

func listBlocks(cmd *cobra.Command, reg *registry.Registry) error {
	presets := make(map[string]bool)
	for _, name := range blocks.Presets() {
		presets[name] = true
	}
	bold := color.New(color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	for _, b := range reg.All() {
		name := b.Name()
		if presets[name] {
			name += " " + dim("(preset)")
		}
		fmt.Fprintf(w, "%s\t%s\n", bold(name), b.About())
	}
	return w.Flush()
}

func showBlock(cmd *cobra.Command, reg *registry.Registry, name string) error {
	b, ok := reg.Get(name)
	if !ok {
		return &registry.UnknownBlockError{Name: name, Known: reg.Names()}
	}
	opts, err := b.Resolve(block.Invocation{Block: b}, nil)
	if err != nil {
		return err
	}
	values, err := block.OptionsMap(opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "# %s\n", b.About())
	if len(values) == 0 {
		fmt.Fprintf(out, "# %s takes no options\n", name)
		return nil
	}
	data, err := yaml.Marshal(map[string]any{"blocks": map[string]any{name: values}})
	if err != nil {
		return fmt.Errorf("encoding options: %w", err)
	}
	_, err = out.Write(data)
	return err
}
