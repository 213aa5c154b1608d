package avatargen

// Model represents a specific image generation model.
type Model string

// ImageSize represents the output resolution for generated images.
type ImageSize string

const (
	ImageSize1K ImageSize = "1K"
	ImageSize2K ImageSize = "2K"
	ImageSize4K ImageSize = "4K"
)

// AspectRatio represents the aspect ratio for generated images.
type AspectRatio string

const (
	AspectRatio1x1  AspectRatio = "1:1"
	AspectRatio3x4  AspectRatio = "3:4"
	AspectRatio2x3  AspectRatio = "2:3" // Photo portrait
	AspectRatio4x5  AspectRatio = "4:5"
	AspectRatioAuto AspectRatio = ""
)

// GenerateConfig holds per-request options for image generation.
type GenerateConfig struct {
	// Model to use for generation (if empty, uses manager's default)
	Model Model

	// Size of the output image (1K, 2K, 4K)
	Size ImageSize

	// AspectRatio of the output image. Avatars are square by default.
	AspectRatio AspectRatio

	// Temperature controls randomness (0.0-2.0)
	Temperature *float32

	// Metadata to attach to requests (for logging/tracking)
	Metadata map[string]string
}

// DefaultConfig returns the request options used for author portraits:
// one square 1K image from the default model, failing fast on rate limits.
func DefaultConfig() *GenerateConfig {
	temp := float32(1.0)
	return &GenerateConfig{
		Model:       ModelDefault,
		Size:        ImageSize1K,
		AspectRatio: AspectRatio1x1,
		Temperature: &temp,
	}
}

func (s ImageSize) String() string {
	return string(s)
}

func (a AspectRatio) String() string {
	return string(a)
}

// String returns the model identifier.
func (m Model) String() string {
	return string(m)
}

// ValidAspectRatio reports whether a is one of the known aspect ratios.
func ValidAspectRatio(a AspectRatio) bool {
	switch a {
	case AspectRatio1x1, AspectRatio3x4, AspectRatio2x3, AspectRatio4x5, AspectRatioAuto:
		return true
	}
	return false
}

// ValidImageSize reports whether s is a known size. Empty means the model default.
func ValidImageSize(s ImageSize) bool {
	switch s {
	case ImageSize1K, ImageSize2K, ImageSize4K, "":
		return true
	}
	return false
}
