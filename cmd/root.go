// Package cmd is the command-line front end of the check-in pipeline.
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cognora/checkin-pipeline/app"
	"github.com/cognora/checkin-pipeline/config"
	"github.com/cognora/checkin-pipeline/logging"
	"github.com/cognora/checkin-pipeline/orchestrator"
)

// env is filled by the root command before any subcommand runs.
type env struct {
	configPath string
	cfg        *config.Root
	log        *logrus.Logger
}

func (e *env) load(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(e.configPath)
	if err != nil {
		return err
	}
	e.cfg = cfg
	e.log = logging.NewWithWriter(cmd.ErrOrStderr(), cfg.Pipeline.Log)
	return nil
}

func (e *env) withPipeline(ctx context.Context, fn func(p *orchestrator.Pipeline) error) error {
	p, closeFn, err := app.Build(ctx, e.cfg, e.log)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeFn(); err != nil {
			e.log.WithError(err).Warn("close store")
		}
	}()
	return fn(p)
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	e := &env{}
	root := &cobra.Command{
		Use:               "cognora",
		Short:             "Daily check-in scoring and caregiver alerts",
		SilenceUsage:      true,
		PersistentPreRunE: e.load,
	}
	root.PersistentFlags().StringVar(&e.configPath, "config", "", "path to config.yaml (default: CONFIG_PATH or config/<CONFIG_ENV>/config.yaml)")

	root.AddCommand(
		newCheckinCmd(e),
		newVoiceCmd(e),
		newAlertsCmd(e),
		newHistoryCmd(e),
		newConfigCmd(e),
	)
	return root
}

// Execute runs the command tree until it finishes or the process is
// interrupted.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
