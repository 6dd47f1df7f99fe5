package recognition

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/textproto"

	"github.com/bnema/faceid-cli/internal/domain"
)

// encodeBatch builds the register-multi form: the subject name plus one "files"
// part per pose, named pose_<index>.jpg in capture order.
func encodeBatch(subject string, images []domain.ImagePayload) ([]byte, string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	if err := writer.WriteField("name", subject); err != nil {
		return nil, "", fmt.Errorf("write name field: %w", err)
	}

	for index, image := range images {
		contentType := image.ContentType
		if contentType == "" {
			contentType = "image/jpeg"
		}

		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="files"; filename="%s"`, poseFileName(index)))
		header.Set("Content-Type", contentType)

		part, err := writer.CreatePart(header)
		if err != nil {
			return nil, "", fmt.Errorf("create form file %d: %w", index, err)
		}
		if _, err := part.Write(image.Data); err != nil {
			return nil, "", fmt.Errorf("write form file %d: %w", index, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}

	return body.Bytes(), writer.FormDataContentType(), nil
}

func poseFileName(index int) string {
	return fmt.Sprintf("pose_%d.jpg", index)
}
