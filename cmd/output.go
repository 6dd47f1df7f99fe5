package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/bnema/faceid-cli/internal/domain"
	"github.com/spf13/cobra"
)

type identificationJSON struct {
	Matched    bool     `json:"matched"`
	Subject    string   `json:"subject"`
	Distance   *float64 `json:"distance,omitempty"`
	Confidence *float64 `json:"confidence,omitempty"`
	Detail     string   `json:"detail,omitempty"`
}

type analysisJSON struct {
	Age             int    `json:"age"`
	Gender          string `json:"gender"`
	DominantEmotion string `json:"dominant_emotion"`
}

type registrationJSON struct {
	Subject  string   `json:"subject"`
	Message  string   `json:"message"`
	Rejected []string `json:"rejected"`
}

type subjectsJSON struct {
	Subjects  []string   `json:"subjects"`
	Count     int        `json:"count"`
	Templates int        `json:"templates"`
	FetchedAt *time.Time `json:"fetched_at,omitempty"`
	Stale     bool       `json:"stale"`
}

func writeJSON(cmd *cobra.Command, value any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}

func writeLines(cmd *cobra.Command, lines ...string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), line); err != nil {
			return err
		}
	}
	return nil
}

func toIdentificationJSON(result domain.IdentificationOutcome) identificationJSON {
	return identificationJSON{
		Matched:    result.Matched,
		Subject:    result.Subject,
		Distance:   result.Distance,
		Confidence: result.Confidence,
		Detail:     result.Detail,
	}
}

func toRegistrationJSON(summary domain.RegistrationSummary) registrationJSON {
	rejected := summary.Rejected
	if rejected == nil {
		rejected = []string{}
	}
	return registrationJSON{Subject: summary.Subject, Message: summary.Message, Rejected: rejected}
}

func toSubjectsJSON(registry domain.SubjectRegistry, stale bool) subjectsJSON {
	out := subjectsJSON{
		Subjects:  registry.Subjects,
		Count:     registry.Count(),
		Templates: registry.Templates,
		Stale:     stale,
	}
	if out.Subjects == nil {
		out.Subjects = []string{}
	}
	if !registry.FetchedAt.IsZero() {
		fetchedAt := registry.FetchedAt
		out.FetchedAt = &fetchedAt
	}
	return out
}
