package cmd

import (
	sessionview "github.com/bnema/faceid-cli/internal/adapters/render/session"
	"github.com/spf13/cobra"
)

func newIdentifyCmd(opts *rootOptions) *cobra.Command {
	var frames frameOptions
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "identify",
		Short: "Identify the face in a frame against enrolled subjects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := wireApp(cmd, opts, frames.path())
			if err != nil {
				return err
			}

			result, err := app.service.Identify(cmd.Context())
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd, toIdentificationJSON(result))
			}
			return writeLines(cmd, sessionview.OutcomeLines(app.service.Snapshot().Outcome)...)
		},
	}

	addFrameFlags(cmd, &frames, true)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}
