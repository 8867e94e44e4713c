package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"subtitleforge/config"
	"subtitleforge/internal/pipeline"
	"subtitleforge/internal/subtitles"
)

func newRenderCommand() *cobra.Command {
	var (
		filter    string
		stylePath string
		software  string
	)

	cmd := &cobra.Command{
		Use:   "render <transcript.txt>",
		Short: "Render a timestamped transcript to a project file on stdout",
		Long: "Each transcript line is \"<timestamp> <text>\". Lines that do not start with a timestamp\n" +
			"are skipped and reported on stderr.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				raw []byte
				err error
			)
			if args[0] == "-" {
				raw, err = io.ReadAll(cmd.InOrStdin())
			} else {
				raw, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("read transcript: %w", err)
			}

			style, err := config.LoadStyleConfig(stylePath)
			if err != nil {
				return err
			}
			if !pipeline.ValidSoftware(software) {
				return fmt.Errorf("unknown software %q, want %s or %s", software, pipeline.SoftwareFinalCut, pipeline.SoftwarePremiere)
			}

			seq, rejected := subtitles.ExtractTranscript(string(raw))
			for _, r := range rejected {
				fmt.Fprintf(cmd.ErrOrStderr(), "line %d skipped: %s\n", r.Line, r.Reason)
			}
			seq = subtitles.ParseFilter(filter).Apply(seq)
			if len(seq) == 0 {
				return fmt.Errorf("no captions left in %s", filepath.Base(args[0]))
			}

			out, err := pipeline.Render(seq, style.Design, software)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out.Data)
			return err
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "", "Comma separated words; captions containing any of them are dropped")
	cmd.Flags().StringVar(&stylePath, "style", "", "TOML style file with the subtitle design")
	cmd.Flags().StringVar(&software, "software", pipeline.SoftwareFinalCut, "Target editor: finalcut or premiere")
	return cmd
}
