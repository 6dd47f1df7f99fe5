package cmd

import (
	sessionview "github.com/bnema/faceid-cli/internal/adapters/render/session"
	"github.com/spf13/cobra"
)

func newAnalyzeCmd(opts *rootOptions) *cobra.Command {
	var frames frameOptions
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Estimate age, gender and emotion for the face in a frame",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := wireApp(cmd, opts, frames.path())
			if err != nil {
				return err
			}

			result, err := app.service.Analyze(cmd.Context())
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd, analysisJSON{
					Age:             result.Age,
					Gender:          result.Gender,
					DominantEmotion: result.DominantEmotion,
				})
			}
			return writeLines(cmd, sessionview.OutcomeLines(app.service.Snapshot().Outcome)...)
		},
	}

	addFrameFlags(cmd, &frames, true)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}
