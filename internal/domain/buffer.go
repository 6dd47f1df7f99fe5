package domain

// CaptureBuffer holds the images of one enrollment session in capture order.
type CaptureBuffer struct {
	images []ImagePayload
}

func (b *CaptureBuffer) Append(image ImagePayload) {
	b.images = append(b.images, image)
}

func (b *CaptureBuffer) Len() int {
	return len(b.images)
}

func (b *CaptureBuffer) Images() []ImagePayload {
	images := make([]ImagePayload, len(b.images))
	copy(images, b.images)
	return images
}

func (b *CaptureBuffer) Reset() {
	b.images = nil
}
