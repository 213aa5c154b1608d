package avatargen

import (
	"context"
)

// MockImageGenerator is a mock implementation of ImageGenerator.
type MockImageGenerator struct {
	GenerateFunc func(ctx context.Context, prompt string, config *GenerateConfig) (*GenerateResult, error)
	ModelsFunc   func() []ModelInfo
	CloseFunc    func() error
}

func (m *MockImageGenerator) Generate(ctx context.Context, prompt string, config *GenerateConfig) (*GenerateResult, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt, config)
	}
	return &GenerateResult{}, nil
}

func (m *MockImageGenerator) Models() []ModelInfo {
	if m.ModelsFunc != nil {
		return m.ModelsFunc()
	}
	return []ModelInfo{}
}

func (m *MockImageGenerator) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// MockPortraitGenerator is a mock implementation of PortraitGenerator.
type MockPortraitGenerator struct {
	GenerateFunc func(ctx context.Context, item WorkItem) (GeneratedImage, error)
	Calls        []string
}

func (m *MockPortraitGenerator) Generate(ctx context.Context, item WorkItem) (GeneratedImage, error) {
	m.Calls = append(m.Calls, item.Name)
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, item)
	}
	return GeneratedImage{Data: []byte("avatar:" + item.Name), MIMEType: "image/png"}, nil
}
