package cmd

import (
	"errors"
	"fmt"

	sessionview "github.com/bnema/faceid-cli/internal/adapters/render/session"
	"github.com/bnema/faceid-cli/internal/domain"
	"github.com/spf13/cobra"
)

func newSubjectsCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool
	var cached bool

	cmd := &cobra.Command{
		Use:     "subjects",
		Aliases: []string{"people"},
		Short:   "List enrolled subjects",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := wireApp(cmd, opts, "")
			if err != nil {
				return err
			}

			registry, err := loadRegistry(cmd, app, cached, asJSON)
			if err != nil {
				return err
			}

			now := app.now()
			if asJSON {
				return writeJSON(cmd, toSubjectsJSON(registry, registry.IsStale(now, app.staleAfter)))
			}

			rendered := sessionview.RenderRegistry(registry, sessionview.RenderOptions{Now: now, StaleAfter: app.staleAfter})
			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")
	cmd.Flags().BoolVar(&cached, "cached", false, "Show the locally cached list without contacting the server")

	return cmd
}

func loadRegistry(cmd *cobra.Command, app *app, cached bool, quiet bool) (domain.SubjectRegistry, error) {
	if cached {
		return app.cache.Load(cmd.Context())
	}
	if quiet {
		return app.service.RefreshSubjects(cmd.Context())
	}

	last, err := app.cache.Load(cmd.Context())
	if err != nil && !errors.Is(err, domain.ErrSubjectCacheMiss) {
		app.logger.Warn("subjects: load cache failed", "error", err)
	}

	return sessionview.RunSubjectsFetch(cmd.Context(), cmd.ErrOrStderr(), last, app.service.RefreshSubjects)
}
