package toml

import "fmt"

const currentSchemaVersion = 1

type fileSchema struct {
	Version   int      `toml:"version"`
	FetchedAt string   `toml:"fetched_at,omitempty"`
	Templates int      `toml:"templates"`
	Subjects  []string `toml:"subjects"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
	if s.Subjects == nil {
		s.Subjects = []string{}
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported subjects schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}
