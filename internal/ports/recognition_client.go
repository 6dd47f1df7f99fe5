package ports

import (
	"context"

	"github.com/bnema/faceid-cli/internal/domain"
)

// RecognitionClient is the remote face-recognition service. Every failure is a
// *domain.NetworkError.
type RecognitionClient interface {
	Identify(ctx context.Context, frame domain.Frame) (domain.IdentificationOutcome, error)
	Analyze(ctx context.Context, frame domain.Frame) (domain.BiometricEstimate, error)
	RegisterBatch(ctx context.Context, subject string, images []domain.ImagePayload) (domain.RegistrationSummary, error)
	ListSubjects(ctx context.Context) (domain.SubjectRegistry, error)
}
