package cmd

import (
	"fmt"
	"io"

	sessionview "github.com/bnema/faceid-cli/internal/adapters/render/session"
	"github.com/bnema/faceid-cli/internal/domain"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func newEnrollCmd(opts *rootOptions) *cobra.Command {
	var frames frameOptions
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "enroll <name>",
		Short: "Enroll a subject from five guided pose captures",
		Long:  "enroll captures one frame per pose (front, closer, farther, left, right) and registers them with the server as a single batch.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := wireApp(cmd, opts, frames.path())
			if err != nil {
				return err
			}

			summary, err := runEnrollment(cmd, app, args[0], newPoseProgressBar(cmd.ErrOrStderr(), asJSON))
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd, toRegistrationJSON(summary))
			}
			return writeLines(cmd, sessionview.OutcomeLines(app.service.Snapshot().Outcome)...)
		},
	}

	addFrameFlags(cmd, &frames, true)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

// runEnrollment walks every pose step. A failed capture cancels the session so
// nothing partial is ever submitted.
func runEnrollment(cmd *cobra.Command, app *app, subject string, bar *progressbar.ProgressBar) (domain.RegistrationSummary, error) {
	controller := app.service.Enrollment()
	if err := controller.StartSession(cmd.Context(), subject); err != nil {
		return domain.RegistrationSummary{}, err
	}

	for _, step := range domain.EnrollmentSteps() {
		if bar != nil {
			bar.Describe(fmt.Sprintf("%d/%d %s", step.Ordinal(), domain.StepCount, step.Label))
		}

		_, summary, err := controller.Capture(cmd.Context())
		if err != nil {
			controller.CancelSession()
			return domain.RegistrationSummary{}, fmt.Errorf("pose %d (%s): %w", step.Ordinal(), step.Pose, err)
		}
		if bar != nil {
			_ = bar.Add(1)
		}
		if summary != nil {
			if bar != nil {
				_ = bar.Finish()
			}
			return *summary, nil
		}
	}

	controller.CancelSession()
	return domain.RegistrationSummary{}, domain.ErrNoActiveSession
}

// newPoseProgressBar returns nil for JSON output.
func newPoseProgressBar(w io.Writer, jsonOutput bool) *progressbar.ProgressBar {
	if jsonOutput {
		return nil
	}
	return progressbar.NewOptions(domain.StepCount,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("Capturing poses"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetItsString("poses"),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionClearOnFinish(),
	)
}
