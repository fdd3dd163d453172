package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cognora/checkin-pipeline/model"
	"github.com/cognora/checkin-pipeline/orchestrator"
)

func newCheckinCmd(e *env) *cobra.Command {
	var (
		in     orchestrator.CheckIn
		text   string
		source string
	)
	c := &cobra.Command{
		Use:   "checkin",
		Short: "Score a text check-in (reads stdin when --text is empty)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if text == "" {
				b, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				text = string(b)
			}
			in.Transcript = strings.TrimSpace(text)
			if in.Transcript == "" {
				return errors.New("empty transcript")
			}
			src, err := model.ParseSource(source)
			if err != nil {
				return err
			}
			in.Source = src

			return e.withPipeline(cmd.Context(), func(p *orchestrator.Pipeline) error {
				res, err := p.Submit(cmd.Context(), in)
				if err != nil {
					return err
				}
				printResult(cmd.OutOrStdout(), res)
				return nil
			})
		},
	}
	f := c.Flags()
	f.StringVar(&in.UserID, "user", "", "user id (required)")
	f.StringVar(&in.Date, "date", "", "entry date YYYY-MM-DD (default today)")
	f.StringVar(&text, "text", "", "transcript text")
	f.StringVar(&in.Context, "context", "", "background about the speaker")
	f.StringVar(&source, "source", "text", "text or voice")
	_ = c.MarkFlagRequired("user")
	return c
}

func newVoiceCmd(e *env) *cobra.Command {
	var (
		in    orchestrator.VoiceCheckIn
		audio string
	)
	c := &cobra.Command{
		Use:   "voice",
		Short: "Transcribe a recording and score it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := os.Open(audio)
			if err != nil {
				return err
			}
			defer f.Close()
			in.Audio, in.AudioName = f, filepath.Base(audio)

			return e.withPipeline(cmd.Context(), func(p *orchestrator.Pipeline) error {
				res, err := p.SubmitVoice(cmd.Context(), in)
				if err != nil {
					return err
				}
				printResult(cmd.OutOrStdout(), res)
				return nil
			})
		},
	}
	fl := c.Flags()
	fl.StringVar(&in.UserID, "user", "", "user id (required)")
	fl.StringVar(&in.Date, "date", "", "entry date YYYY-MM-DD (default today)")
	fl.StringVar(&in.Context, "context", "", "background about the speaker")
	fl.StringVar(&audio, "audio", "", "path to audio file (wav/mp3/m4a)")
	_ = c.MarkFlagRequired("user")
	_ = c.MarkFlagRequired("audio")
	return c
}
