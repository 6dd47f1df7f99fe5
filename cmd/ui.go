package cmd

import (
	sessionview "github.com/bnema/faceid-cli/internal/adapters/render/session"
	"github.com/spf13/cobra"
)

func newUICmd(opts *rootOptions) *cobra.Command {
	var frames frameOptions

	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Open the interactive identify and enrollment screen",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := wireApp(cmd, opts, frames.path())
			if err != nil {
				return err
			}

			return sessionview.Run(cmd.Context(), app.service,
				sessionview.WithStaleAfter(app.staleAfter),
				sessionview.WithClock(app.now),
			)
		},
	}

	addFrameFlags(cmd, &frames, false)

	return cmd
}
