package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cognora/checkin-pipeline/orchestrator"
)

func newHistoryCmd(e *env) *cobra.Command {
	var (
		user string
		days int
		out  string
	)
	c := &cobra.Command{
		Use:   "history",
		Short: "Show recent entries and a summary, or export them with --out",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return e.withPipeline(cmd.Context(), func(p *orchestrator.Pipeline) error {
				w := cmd.OutOrStdout()
				if out != "" {
					if err := p.Export(cmd.Context(), user, days, out); err != nil {
						return err
					}
					fmt.Fprintf(w, "exported to %s\n", out)
					return nil
				}
				entries, err := p.History(cmd.Context(), user, days)
				if err != nil {
					return err
				}
				printSummary(w, orchestrator.Summarize(user, entries))
				for _, en := range entries {
					printEntryLine(w, en)
				}
				return nil
			})
		},
	}
	f := c.Flags()
	f.StringVar(&user, "user", "", "user id (required)")
	f.IntVar(&days, "days", 7, "number of most recent entries")
	f.StringVar(&out, "out", "", "write a JSON export to this path")
	_ = c.MarkFlagRequired("user")
	return c
}
