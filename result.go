package avatargen

// GeneratedImage represents a single generated image result.
type GeneratedImage struct {
	// Data contains the raw (already base64-decoded) image bytes
	Data []byte

	// MIMEType of the generated image
	MIMEType string

	// Index is the position in a multi-image result (0-indexed)
	Index int
}

// GenerateResult holds the complete result of an image generation request.
type GenerateResult struct {
	// Images contains all generated images in response order
	Images []GeneratedImage

	// Text contains any text response from the model
	Text string

	// UsageMetadata contains token/billing information
	UsageMetadata *UsageMetadata
}

// FirstImage returns the first image part carrying data.
func (r *GenerateResult) FirstImage() (GeneratedImage, bool) {
	if r == nil {
		return GeneratedImage{}, false
	}
	for _, img := range r.Images {
		if len(img.Data) > 0 {
			return img, true
		}
	}
	return GeneratedImage{}, false
}

// UsageMetadata contains usage information for billing and monitoring.
type UsageMetadata struct {
	PromptTokens     int
	CandidatesTokens int
	TotalTokens      int
	ImageCount       int
}
