package cli

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/ariel-frischer/blockcraft/internal/history"
	"github.com/spf13/cobra"
)

const flagLimit = "limit"

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent generation runs for this project",
		Long: `History prints the runs recorded in .blockcraft/history.yml, newest last.
Dry runs are not recorded. Set history_limit: 0 to stop recording.`,
		GroupID: GroupInspect,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			limit, _ := cmd.Flags().GetInt(flagLimit)
			if limit < 0 {
				return usageError(cmd, "--%s must not be negative", flagLimit)
			}
			s, err := newSession(cmd)
			if err != nil {
				return err
			}

			file, err := history.Load(s.stateDir)
			if err != nil {
				return err
			}
			entries := file.Entries
			if limit > 0 && len(entries) > limit {
				entries = entries[len(entries)-limit:]
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No generation runs recorded.")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "TIME\tMODE\tPRESET\tCHANGES\tEXIT\tDURATION")
			for _, e := range entries {
				preset := e.Preset
				if preset == "" {
					preset = "-"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
					e.Timestamp.Local().Format(time.DateTime), e.Mode, preset, formatCounts(e.Changes), e.ExitCode, e.Duration)
			}
			return w.Flush()
		},
	}
	cmd.Flags().Int(flagLimit, 10, "Show at most this many runs (0 = all)")
	return cmd
}

func formatCounts(counts map[string]int) string {
	if len(counts) == 0 {
		return "-"
	}
	actions := make([]string, 0, len(counts))
	for action := range counts {
		actions = append(actions, action)
	}
	sort.Strings(actions)
	parts := make([]string, 0, len(actions))
	for _, action := range actions {
		parts = append(parts, fmt.Sprintf("%d %s", counts[action], action))
	}
	return strings.Join(parts, ", ")
}
