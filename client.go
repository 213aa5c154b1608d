package avatargen

import (
	"context"
	"fmt"
)

// PortraitClient turns a work item into avatar bytes: it renders the
// portrait prompt, makes exactly one generation call and returns the first
// image in the response. It never retries.
type PortraitClient struct {
	generator ImageGenerator
	style     string
	config    *GenerateConfig
}

// PortraitOption configures a PortraitClient.
type PortraitOption func(*PortraitClient)

// WithStyle overrides DefaultStyle in the portrait prompt.
func WithStyle(style string) PortraitOption {
	return func(c *PortraitClient) {
		if style != "" {
			c.style = style
		}
	}
}

// WithGenerateConfig sets the request options sent with every call.
func WithGenerateConfig(cfg *GenerateConfig) PortraitOption {
	return func(c *PortraitClient) {
		if cfg != nil {
			c.config = cfg
		}
	}
}

// NewPortraitClient returns a client that generates through gen.
func NewPortraitClient(gen ImageGenerator, opts ...PortraitOption) *PortraitClient {
	c := &PortraitClient{
		generator: gen,
		style:     DefaultStyle,
		config:    DefaultConfig(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Prompt returns the prompt the client sends for item.
func (c *PortraitClient) Prompt(item WorkItem) string {
	return BuildPrompt(item.Name, c.style)
}

// Generate produces the avatar image for item. Every failure, including a
// response without image data, matches ErrGenerationFailed.
func (c *PortraitClient) Generate(ctx context.Context, item WorkItem) (GeneratedImage, error) {
	prompt := c.Prompt(item)
	if err := ValidatePrompt(prompt); err != nil {
		return GeneratedImage{}, generationFailed(err)
	}

	cfg := *c.config
	cfg.Metadata = map[string]string{"author": item.Name}

	result, err := c.generator.Generate(ctx, prompt, &cfg)
	if err != nil {
		return GeneratedImage{}, generationFailed(err)
	}

	img, ok := result.FirstImage()
	if !ok {
		if result != nil && result.Text != "" {
			return GeneratedImage{}, generationFailed(fmt.Errorf("%w (model said: %q)", ErrNoImageData, truncate(result.Text, 200)))
		}
		return GeneratedImage{}, generationFailed(ErrNoImageData)
	}
	return img, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
