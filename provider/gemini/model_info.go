package gemini

import "github.com/mhpenta/avatargen"

var portraitAspectRatios = []avatargen.AspectRatio{
	avatargen.AspectRatio1x1,
	avatargen.AspectRatio3x4,
	avatargen.AspectRatio2x3,
	avatargen.AspectRatio4x5,
}

// NanoBanana1Info is the model info for Gemini 2.5 Flash Image (nano-banana-1),
// the default portrait model.
var NanoBanana1Info = avatargen.ModelInfo{
	Name:         string(avatargen.ModelNanoBanana1),
	Provider:     avatargen.ProviderGeminiAPI,
	APIModelName: APIModelNanoBanana1,

	Capabilities: avatargen.ModelCapabilities{
		SupportsTextToImage: true,
	},

	// Flash Image only supports ~1024px output (1K)
	ImageConstraints: avatargen.ImageConstraints{
		SupportedAspectRatios: portraitAspectRatios,
		SupportedSizes:        []avatargen.ImageSize{avatargen.ImageSize1K},
	},

	RateLimits: avatargen.RateLimits{
		TokensPerMinute:   4000000,
		RequestsPerMinute: 500, // ~500 RPM for Tier 1
	},

	// $30 per million output tokens, 1290 tokens per 1024x1024 image.
	Pricing: avatargen.Pricing{
		ImageGenerationCost: 0.039,
	},
}

// NanoBanana2Info is the model info for Gemini 3 Pro Image (nano-banana-2).
var NanoBanana2Info = avatargen.ModelInfo{
	Name:         string(avatargen.ModelNanoBanana2),
	Provider:     avatargen.ProviderGeminiAPI,
	APIModelName: APIModelNanoBanana2,

	Capabilities: avatargen.ModelCapabilities{
		SupportsTextToImage: true,
	},

	ImageConstraints: avatargen.ImageConstraints{
		SupportedAspectRatios: portraitAspectRatios,
		SupportedSizes: []avatargen.ImageSize{
			avatargen.ImageSize1K,
			avatargen.ImageSize2K,
			avatargen.ImageSize4K,
		},
	},

	RateLimits: avatargen.RateLimits{
		TokensPerMinute:   4000000,
		RequestsPerMinute: 360,
	},

	// Approximate costs: 1K/2K image ~$0.134, 4K image ~$0.24.
	Pricing: avatargen.Pricing{
		ImageGenerationCost: 0.134,
	},
}
