// Package gemini provides an ImageGenerator implementation using Google's Gemini API.
//
// This provider uses the Gemini API backend via the official Go SDK:
// https://github.com/googleapis/go-genai
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/mhpenta/avatargen"
	"google.golang.org/genai"
)

// Model name constants - the actual API model names.
const (
	// APIModelNanoBanana1 is the actual API name for Gemini 2.5 Flash Image
	APIModelNanoBanana1 = "gemini-2.5-flash-image"

	// APIModelNanoBanana2 is the actual API name for Gemini 3 Pro Image
	APIModelNanoBanana2 = "gemini-3-pro-image-preview"
)

// DefaultTimeout bounds a single generation request.
const DefaultTimeout = 2 * time.Minute

// GeminiGenerator implements ImageGenerator using Google's Gemini API.
type GeminiGenerator struct {
	client *genai.Client
}

var _ avatargen.ImageGenerator = (*GeminiGenerator)(nil)

// New creates a new GeminiGenerator from a ProviderConfig. The API key is
// required: the SDK's fallback to GOOGLE_API_KEY / GEMINI_API_KEY is not used.
func New(ctx context.Context, config *avatargen.ProviderConfig) (*GeminiGenerator, error) {
	if config == nil || config.APIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key is required", avatargen.ErrProviderNotConfigured)
	}

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	clientCfg := &genai.ClientConfig{
		Backend:    genai.BackendGeminiAPI,
		APIKey:     config.APIKey,
		HTTPClient: &http.Client{Timeout: timeout},
	}
	if config.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: config.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiGenerator{
		client: client,
	}, nil
}

// NewWithAPIKey creates a generator with an API key for Gemini API.
func NewWithAPIKey(ctx context.Context, apiKey string) (*GeminiGenerator, error) {
	return New(ctx, &avatargen.ProviderConfig{
		Provider: avatargen.ProviderGeminiAPI,
		APIKey:   apiKey,
	})
}

// Generate creates images from a text prompt.
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string, config *avatargen.GenerateConfig) (*avatargen.GenerateResult, error) {
	if err := avatargen.ValidatePrompt(prompt); err != nil {
		return nil, err
	}

	if config == nil {
		config = avatargen.DefaultConfig()
	}

	modelName := g.resolveModel(config)

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: prompt},
			},
		},
	}

	result, err := g.client.Models.GenerateContent(ctx, modelName, contents, buildGenerateContentConfig(config))
	if err != nil {
		return nil, translateError(err, modelName)
	}

	return parseResult(result)
}

// Models returns the model definitions supported by this provider.
// The first model (NanoBanana1) is the default.
func (g *GeminiGenerator) Models() []avatargen.ModelInfo {
	return []avatargen.ModelInfo{
		NanoBanana1Info,
		NanoBanana2Info,
	}
}

// Close releases any resources held by the generator.
func (g *GeminiGenerator) Close() error {
	// The genai.Client doesn't require explicit closing in the current SDK
	return nil
}

// resolveModel determines which API model name to use.
// Falls back to the first model (default) if none specified.
func (g *GeminiGenerator) resolveModel(config *avatargen.GenerateConfig) string {
	if config != nil && config.Model != "" {
		return string(config.Model)
	}
	return g.Models()[0].APIModelName
}

// buildGenerateContentConfig converts our config to Gemini's GenerateContentConfig format.
func buildGenerateContentConfig(config *avatargen.GenerateConfig) *genai.GenerateContentConfig {
	genConfig := &genai.GenerateContentConfig{
		ResponseModalities: []string{"TEXT", "IMAGE"},
	}

	imageConfig := &genai.ImageConfig{}
	if config.Size != "" {
		imageConfig.ImageSize = config.Size.String()
	}
	if config.AspectRatio != "" {
		imageConfig.AspectRatio = config.AspectRatio.String()
	}
	genConfig.ImageConfig = imageConfig

	if config.Temperature != nil {
		genConfig.Temperature = genai.Ptr(*config.Temperature)
	}

	return genConfig
}

// parseResult converts a Gemini response to our result type. A response
// without any content parts is an error; a response whose parts carry no
// image is returned as-is and left to the caller to reject.
func parseResult(result *genai.GenerateContentResponse) (*avatargen.GenerateResult, error) {
	if result == nil {
		return nil, avatargen.ErrMissingParts
	}
	if len(result.Candidates) == 0 {
		if result.PromptFeedback != nil && result.PromptFeedback.BlockReason != "" {
			return nil, fmt.Errorf("%w: prompt blocked (%s)", avatargen.ErrMissingParts, result.PromptFeedback.BlockReason)
		}
		return nil, avatargen.ErrMissingParts
	}

	genResult := &avatargen.GenerateResult{
		Images: make([]avatargen.GeneratedImage, 0, 1),
	}

	var partCount int
	var finishReason genai.FinishReason
	for _, candidate := range result.Candidates {
		if candidate == nil {
			continue
		}
		if finishReason == "" {
			finishReason = candidate.FinishReason
		}
		if candidate.Content == nil {
			continue
		}

		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			partCount++

			// Thought parts are reasoning, not output
			if part.Thought {
				continue
			}

			if part.Text != "" {
				genResult.Text += part.Text
			}

			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				genResult.Images = append(genResult.Images, avatargen.GeneratedImage{
					Data:     part.InlineData.Data,
					MIMEType: part.InlineData.MIMEType,
					Index:    len(genResult.Images),
				})
			}
		}
	}

	if partCount == 0 {
		if finishReason != "" {
			return nil, fmt.Errorf("%w: finish reason %s", avatargen.ErrMissingParts, finishReason)
		}
		return nil, avatargen.ErrMissingParts
	}

	if result.UsageMetadata != nil {
		genResult.UsageMetadata = &avatargen.UsageMetadata{
			PromptTokens:     int(result.UsageMetadata.PromptTokenCount),
			CandidatesTokens: int(result.UsageMetadata.CandidatesTokenCount),
			TotalTokens:      int(result.UsageMetadata.TotalTokenCount),
			ImageCount:       len(genResult.Images),
		}
	}

	return genResult, nil
}

// translateError maps SDK errors onto the package's error types: quota
// errors become RateLimitError, other API errors become StatusError.
func translateError(err error, model string) error {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return err
	}

	if apiErr.Code == http.StatusTooManyRequests || apiErr.Status == "RESOURCE_EXHAUSTED" {
		return &avatargen.RateLimitError{
			RetryAfter: 60 * time.Second, // API doesn't reliably provide Retry-After
			LimitType:  "requests",
			Model:      model,
			Err:        err,
		}
	}

	body := apiErr.Message
	if apiErr.Status != "" {
		body = apiErr.Status + ": " + body
	}
	return &avatargen.StatusError{StatusCode: apiErr.Code, Body: body}
}
