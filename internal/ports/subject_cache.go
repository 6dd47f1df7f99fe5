package ports

import (
	"context"

	"github.com/bnema/faceid-cli/internal/domain"
)

type SubjectCache interface {
	Load(ctx context.Context) (domain.SubjectRegistry, error)
	Save(ctx context.Context, registry domain.SubjectRegistry) error
}
