package avatargen

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestPortraitClient_Generate(t *testing.T) {
	upstream := errors.New("connection reset")

	tests := []struct {
		name       string
		result     *GenerateResult
		err        error
		wantErr    error
		wantCause  error
		wantInText string
	}{
		{
			name:   "first image returned",
			result: &GenerateResult{Images: []GeneratedImage{{Data: []byte("a")}, {Data: []byte("b")}}},
		},
		{
			name:      "transport error",
			err:       upstream,
			wantErr:   ErrGenerationFailed,
			wantCause: upstream,
		},
		{
			name:      "status error",
			err:       &StatusError{StatusCode: 503, Body: "overloaded"},
			wantErr:   ErrGenerationFailed,
			wantCause: nil,
		},
		{
			name:      "no image data",
			result:    &GenerateResult{},
			wantErr:   ErrGenerationFailed,
			wantCause: ErrNoImageData,
		},
		{
			name:       "text only response",
			result:     &GenerateResult{Text: "I can't depict that person."},
			wantErr:    ErrGenerationFailed,
			wantCause:  ErrNoImageData,
			wantInText: "can't depict",
		},
		{
			name:      "missing parts",
			err:       ErrMissingParts,
			wantErr:   ErrGenerationFailed,
			wantCause: ErrMissingParts,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int
			var gotConfig *GenerateConfig
			mock := &MockImageGenerator{
				GenerateFunc: func(ctx context.Context, prompt string, config *GenerateConfig) (*GenerateResult, error) {
					calls++
					gotConfig = config
					return tt.result, tt.err
				},
			}

			img, err := NewPortraitClient(mock).Generate(context.Background(), WorkItem{Name: "Plato"})
			if calls != 1 {
				t.Fatalf("generator called %d times, want exactly 1", calls)
			}
			if gotConfig.Metadata["author"] != "Plato" {
				t.Errorf("metadata = %v", gotConfig.Metadata)
			}

			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if string(img.Data) != "a" {
					t.Errorf("expected first image, got %q", img.Data)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if tt.wantCause != nil && !errors.Is(err, tt.wantCause) {
				t.Errorf("expected cause %v in chain, got %v", tt.wantCause, err)
			}
			if tt.wantInText != "" && !strings.Contains(err.Error(), tt.wantInText) {
				t.Errorf("error should carry model text: %v", err)
			}
		})
	}
}

func TestPortraitClient_StatusErrorStaysReachable(t *testing.T) {
	mock := &MockImageGenerator{
		GenerateFunc: func(ctx context.Context, prompt string, config *GenerateConfig) (*GenerateResult, error) {
			return nil, &StatusError{StatusCode: 500, Body: "boom"}
		},
	}
	_, err := NewPortraitClient(mock).Generate(context.Background(), WorkItem{Name: "Kant"})

	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != 500 {
		t.Fatalf("expected StatusError 500 in chain, got %v", err)
	}
	if !strings.Contains(err.Error(), "500") || !strings.Contains(err.Error(), "boom") {
		t.Errorf("message should include status and body: %v", err)
	}
}

func TestPortraitClient_Options(t *testing.T) {
	var gotPrompt string
	var gotConfig *GenerateConfig
	mock := &MockImageGenerator{
		GenerateFunc: func(ctx context.Context, prompt string, config *GenerateConfig) (*GenerateResult, error) {
			gotPrompt, gotConfig = prompt, config
			return &GenerateResult{Images: []GeneratedImage{{Data: []byte("x")}}}, nil
		},
	}

	base := &GenerateConfig{Model: ModelNanoBanana2, AspectRatio: AspectRatio3x4}
	client := NewPortraitClient(mock, WithStyle("charcoal sketch"), WithGenerateConfig(base))
	if _, err := client.Generate(context.Background(), WorkItem{Name: "Hume"}); err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(gotPrompt, "charcoal sketch") {
		t.Errorf("prompt should use custom style: %q", gotPrompt)
	}
	if gotConfig.Model != ModelNanoBanana2 || gotConfig.AspectRatio != AspectRatio3x4 {
		t.Errorf("config not forwarded: %+v", gotConfig)
	}
	if base.Metadata != nil {
		t.Error("the shared config must not be mutated per request")
	}
}
