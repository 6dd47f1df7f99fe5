package domain

import (
	"encoding/base64"
	"fmt"
	"strings"
)

const defaultFrameContentType = "image/jpeg"

// Frame is an encoded still image as a capture widget hands it out: a data URL
// ("data:image/jpeg;base64,...") or bare base64.
type Frame string

type ImagePayload struct {
	Data        []byte
	ContentType string
}

func NewFrame(data []byte, contentType string) Frame {
	if contentType == "" {
		contentType = defaultFrameContentType
	}

	return Frame("data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data))
}

func (f Frame) Empty() bool {
	return strings.TrimSpace(string(f)) == ""
}

// DecodeFrame converts a captured frame into the binary payload kept in the
// capture buffer and sent in batch registrations.
func DecodeFrame(f Frame) (ImagePayload, error) {
	raw := strings.TrimSpace(string(f))
	if raw == "" {
		return ImagePayload{}, ErrNoFrameAvailable
	}

	contentType := defaultFrameContentType
	encoded := raw
	if rest, ok := strings.CutPrefix(raw, "data:"); ok {
		header, body, found := strings.Cut(rest, ",")
		if !found {
			return ImagePayload{}, fmt.Errorf("%w: data url has no payload", ErrMalformedFrame)
		}

		mediaType, isBase64 := strings.CutSuffix(header, ";base64")
		if !isBase64 {
			return ImagePayload{}, fmt.Errorf("%w: data url is not base64 encoded", ErrMalformedFrame)
		}
		if mediaType != "" {
			contentType = mediaType
		}
		encoded = body
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return ImagePayload{}, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}
	if len(data) == 0 {
		return ImagePayload{}, fmt.Errorf("%w: empty image", ErrMalformedFrame)
	}

	return ImagePayload{Data: data, ContentType: contentType}, nil
}
