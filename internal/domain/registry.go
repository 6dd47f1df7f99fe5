package domain

import (
	"slices"
	"strings"
	"time"
)

// SubjectRegistry is the client's copy of the enrolled subject names. It is only
// ever replaced wholesale from a fetch.
type SubjectRegistry struct {
	Subjects  []string
	Templates int
	FetchedAt time.Time
}

func NewSubjectRegistry(names []string, templates int, fetchedAt time.Time) SubjectRegistry {
	return SubjectRegistry{
		Subjects:  NormalizeSubjects(names),
		Templates: templates,
		FetchedAt: fetchedAt,
	}
}

func (r SubjectRegistry) Count() int {
	return len(r.Subjects)
}

func (r SubjectRegistry) Contains(name string) bool {
	return slices.Contains(r.Subjects, strings.TrimSpace(name))
}

func (r SubjectRegistry) IsStale(now time.Time, maxAge time.Duration) bool {
	return Freshness{AsOf: r.FetchedAt}.IsStale(now, maxAge)
}

func (r SubjectRegistry) Clone() SubjectRegistry {
	r.Subjects = slices.Clone(r.Subjects)
	return r
}

func NormalizeSubjects(names []string) []string {
	subjects := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		subjects = append(subjects, trimmed)
	}

	slices.Sort(subjects)
	return subjects
}
