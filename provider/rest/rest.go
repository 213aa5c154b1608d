// Package rest talks to the Gemini generateContent endpoint directly over
// HTTPS with resty, without the genai SDK. It sends one JSON request per
// prompt and decodes the base64 inline image data itself.
package rest

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-resty/resty/v2"

	"github.com/mhpenta/avatargen"
	"github.com/mhpenta/avatargen/provider/gemini"
)

// DefaultBaseURL is the public Gemini API host.
const DefaultBaseURL = "https://generativelanguage.googleapis.com"

const generatePath = "/v1beta/models/{model}:generateContent"

// maxErrorBody caps how much of an error response ends up in a StatusError.
const maxErrorBody = 2048

// Generator implements avatargen.ImageGenerator over plain HTTPS.
type Generator struct {
	client *resty.Client
	apiKey string
}

var _ avatargen.ImageGenerator = (*Generator)(nil)

// New creates a Generator. BaseURL defaults to DefaultBaseURL.
func New(config *avatargen.ProviderConfig) (*Generator, error) {
	if config == nil || config.APIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key is required", avatargen.ErrProviderNotConfigured)
	}

	baseURL := strings.TrimRight(config.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = gemini.DefaultTimeout
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &Generator{client: client, apiKey: config.APIKey}, nil
}

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type generationConfig struct {
	ResponseModalities []string     `json:"responseModalities,omitempty"`
	Temperature        *float32     `json:"temperature,omitempty"`
	ImageConfig        *imageConfig `json:"imageConfig,omitempty"`
}

type imageConfig struct {
	AspectRatio string `json:"aspectRatio,omitempty"`
	ImageSize   string `json:"imageSize,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	Thought    bool        `json:"thought,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"` // base64
}

type generateResponse struct {
	Candidates []struct {
		Content      *content `json:"content"`
		FinishReason string   `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
	UsageMetadata *struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
		TotalTokenCount      int `json:"totalTokenCount"`
	} `json:"usageMetadata"`
}

// Generate sends one generateContent request for prompt.
func (g *Generator) Generate(ctx context.Context, prompt string, config *avatargen.GenerateConfig) (*avatargen.GenerateResult, error) {
	if err := avatargen.ValidatePrompt(prompt); err != nil {
		return nil, err
	}
	if config == nil {
		config = avatargen.DefaultConfig()
	}

	model := string(config.Model)
	if model == "" {
		model = g.Models()[0].APIModelName
	}

	resp, err := g.client.R().
		SetContext(ctx).
		SetHeader("x-goog-api-key", g.apiKey).
		SetPathParam("model", model).
		SetBody(buildRequest(prompt, config)).
		Post(generatePath)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", model, err)
	}

	if !resp.IsSuccess() {
		statusErr := &avatargen.StatusError{
			StatusCode: resp.StatusCode(),
			Body:       truncateBody(resp.Body()),
		}
		if resp.StatusCode() == http.StatusTooManyRequests {
			return nil, &avatargen.RateLimitError{
				RetryAfter: retryAfter(resp.Header().Get("Retry-After")),
				LimitType:  "requests",
				Model:      model,
				Err:        statusErr,
			}
		}
		return nil, statusErr
	}

	var out generateResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return parseResponse(&out)
}

// Models returns the Gemini image models, served through this transport.
func (g *Generator) Models() []avatargen.ModelInfo {
	models := []avatargen.ModelInfo{gemini.NanoBanana1Info, gemini.NanoBanana2Info}
	for i := range models {
		models[i].Provider = avatargen.ProviderGeminiREST
	}
	return models
}

// Close is a no-op; resty keeps no resources that need releasing.
func (g *Generator) Close() error {
	return nil
}

func buildRequest(prompt string, config *avatargen.GenerateConfig) generateRequest {
	gc := &generationConfig{
		ResponseModalities: []string{"TEXT", "IMAGE"},
		Temperature:        config.Temperature,
	}
	if config.AspectRatio != "" || config.Size != "" {
		gc.ImageConfig = &imageConfig{
			AspectRatio: config.AspectRatio.String(),
			ImageSize:   config.Size.String(),
		}
	}
	return generateRequest{
		Contents: []content{{
			Role:  "user",
			Parts: []part{{Text: prompt}},
		}},
		GenerationConfig: gc,
	}
}

func parseResponse(out *generateResponse) (*avatargen.GenerateResult, error) {
	if len(out.Candidates) == 0 {
		if out.PromptFeedback != nil && out.PromptFeedback.BlockReason != "" {
			return nil, fmt.Errorf("%w: prompt blocked (%s)", avatargen.ErrMissingParts, out.PromptFeedback.BlockReason)
		}
		return nil, avatargen.ErrMissingParts
	}

	result := &avatargen.GenerateResult{}
	var partCount int
	for _, cand := range out.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, p := range cand.Content.Parts {
			partCount++
			if p.Thought {
				continue
			}
			result.Text += p.Text
			if p.InlineData == nil || p.InlineData.Data == "" {
				continue
			}
			data, err := base64.StdEncoding.DecodeString(p.InlineData.Data)
			if err != nil {
				return nil, fmt.Errorf("decode inline image data: %w", err)
			}
			result.Images = append(result.Images, avatargen.GeneratedImage{
				Data:     data,
				MIMEType: p.InlineData.MIMEType,
				Index:    len(result.Images),
			})
		}
	}
	if partCount == 0 {
		if reason := out.Candidates[0].FinishReason; reason != "" {
			return nil, fmt.Errorf("%w: finish reason %s", avatargen.ErrMissingParts, reason)
		}
		return nil, avatargen.ErrMissingParts
	}

	if u := out.UsageMetadata; u != nil {
		result.UsageMetadata = &avatargen.UsageMetadata{
			PromptTokens:     u.PromptTokenCount,
			CandidatesTokens: u.CandidatesTokenCount,
			TotalTokens:      u.TotalTokenCount,
			ImageCount:       len(result.Images),
		}
	}
	return result, nil
}

// truncateBody caps an error body at maxErrorBody bytes without splitting a rune.
func truncateBody(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) <= maxErrorBody {
		return s
	}
	cut := maxErrorBody
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "…"
}

func retryAfter(header string) time.Duration {
	if secs, err := time.ParseDuration(strings.TrimSpace(header) + "s"); err == nil && secs > 0 {
		return secs
	}
	return time.Minute
}
