package ports

import "github.com/bnema/faceid-cli/internal/domain"

// FrameSource hands out the current camera frame; ok is false when none is available.
type FrameSource interface {
	CaptureFrame() (frame domain.Frame, ok bool)
}
