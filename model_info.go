package avatargen

// ModelCapabilities describes what features a model supports.
type ModelCapabilities struct {
	SupportsTextToImage bool
}

// RateLimits defines rate limiting parameters for a model.
type RateLimits struct {
	TokensPerMinute   int
	RequestsPerMinute int
}

// Pricing defines cost information for a model.
type Pricing struct {
	ImageGenerationCost float64 // USD per generated image, used for run estimates
}

// ImageConstraints defines supported image configurations for a model.
type ImageConstraints struct {
	SupportedAspectRatios []AspectRatio
	SupportedSizes        []ImageSize
}

// Supports reports whether the model accepts the given aspect ratio and size.
// Empty values always pass, letting the provider pick its default.
func (c ImageConstraints) Supports(ratio AspectRatio, size ImageSize) bool {
	return containsOrEmpty(c.SupportedAspectRatios, ratio) && containsOrEmpty(c.SupportedSizes, size)
}

func containsOrEmpty[T comparable](list []T, v T) bool {
	var zero T
	if v == zero || len(list) == 0 {
		return true
	}
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// ModelInfo contains complete metadata for a model.
type ModelInfo struct {
	// Identity
	Name         string   // Public model name (e.g., "nano-banana-1")
	Provider     Provider // Which provider serves this model
	APIModelName string   // Actual API name (e.g., "gemini-2.5-flash-image")

	Capabilities     ModelCapabilities
	ImageConstraints ImageConstraints
	RateLimits       RateLimits
	Pricing          Pricing
}
