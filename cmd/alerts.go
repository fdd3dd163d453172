package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cognora/checkin-pipeline/orchestrator"
)

func newAlertsCmd(e *env) *cobra.Command {
	c := &cobra.Command{
		Use:   "alerts",
		Short: "Evaluate or list caregiver alerts",
	}
	c.AddCommand(newAlertsCheckCmd(e), newAlertsHistoryCmd(e))
	return c
}

func newAlertsCheckCmd(e *env) *cobra.Command {
	var user string
	c := &cobra.Command{
		Use:   "check",
		Short: "Evaluate recent entries and notify the caregiver if needed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return e.withPipeline(cmd.Context(), func(p *orchestrator.Pipeline) error {
				out, err := p.CheckAndSendAlerts(cmd.Context(), user)
				if err != nil {
					return err
				}
				printOutcome(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}
	c.Flags().StringVar(&user, "user", "", "user id (required)")
	_ = c.MarkFlagRequired("user")
	return c
}

func newAlertsHistoryCmd(e *env) *cobra.Command {
	var user string
	c := &cobra.Command{
		Use:   "history",
		Short: "List past alert attempts, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return e.withPipeline(cmd.Context(), func(p *orchestrator.Pipeline) error {
				logs, err := p.AlertHistory(cmd.Context(), user)
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				if len(logs) == 0 {
					fmt.Fprintln(w, "no alerts recorded")
					return nil
				}
				for _, a := range logs {
					printAlertLog(w, a)
				}
				return nil
			})
		},
	}
	c.Flags().StringVar(&user, "user", "", "user id (required)")
	_ = c.MarkFlagRequired("user")
	return c
}
