package avatargen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/mhpenta/avatargen/ratelimiter"
)

const (
	ModelNanoBanana1 Model = "nano-banana-1" // Gemini 2.5 Flash Image
	ModelNanoBanana2 Model = "nano-banana-2" // Gemini 3 Pro Image

	// ModelDefault asks the manager for its configured default model.
	ModelDefault Model = ""
)

var (
	// ErrModelNotRegistered is returned when a model has no registered provider.
	ErrModelNotRegistered = errors.New("model not registered")

	// ErrProviderNotConfigured is returned when a provider lacks required config.
	ErrProviderNotConfigured = errors.New("provider not configured")
)

// Provider names a transport that serves models.
type Provider string

const (
	ProviderGeminiAPI  Provider = "gemini"      // genai SDK transport
	ProviderGeminiREST Provider = "gemini-rest" // plain HTTPS JSON transport
)

// ProviderConfig configures a specific provider.
type ProviderConfig struct {
	Provider Provider
	APIKey   string

	// BaseURL overrides the provider's endpoint (optional)
	BaseURL string

	// Timeout bounds a single generation request (optional)
	Timeout time.Duration
}

// ModelMapping maps a public model name to its provider and API model name.
type ModelMapping struct {
	Provider        Provider
	ActualModelName string
}

// route is everything the manager knows about one registered model.
type route struct {
	mapping ModelMapping
	info    *ModelInfo
	limiter ratelimiter.Limiter
}

// Manager implements ImageGenerator on top of one or more providers. It
// resolves the public model name, applies that model's rate limit and
// forwards the call with the provider's own model name.
type Manager struct {
	mu sync.RWMutex

	routes       map[Model]*route
	providers    map[Provider]ImageGenerator
	defaultModel Model

	logger         *slog.Logger
	tokenEstimator TokenEstimator
}

var _ ImageGenerator = (*Manager)(nil)

// New creates an empty Manager.
func New() *Manager {
	return &Manager{
		routes:         make(map[Model]*route),
		providers:      make(map[Provider]ImageGenerator),
		defaultModel:   ModelNanoBanana1,
		logger:         slog.Default(),
		tokenEstimator: NewRuneTokenEstimator(),
	}
}

// RegisterModel registers a model and gives it an in-memory rate limiter
// built from info.RateLimits. Use SetRateLimiter to override it.
func (m *Manager) RegisterModel(model Model, mapping ModelMapping, info *ModelInfo) *Manager {
	m.mu.Lock()
	defer m.mu.Unlock()

	r := &route{mapping: mapping, info: info}
	if info != nil && (info.RateLimits.TokensPerMinute > 0 || info.RateLimits.RequestsPerMinute > 0) {
		r.limiter = ratelimiter.New(info.RateLimits.TokensPerMinute, info.RateLimits.RequestsPerMinute)
	}
	m.routes[model] = r
	return m
}

// SetRateLimiter replaces the rate limiter of a registered model. A nil
// limiter disables limiting for it.
func (m *Manager) SetRateLimiter(model Model, limiter ratelimiter.Limiter) *Manager {
	m.mu.Lock()
	defer m.mu.Unlock()

	if r, ok := m.routes[model]; ok {
		r.limiter = limiter
	}
	return m
}

// Generate resolves the model, checks its rate limit and calls the provider.
func (m *Manager) Generate(ctx context.Context, prompt string, config *GenerateConfig) (*GenerateResult, error) {
	if config == nil {
		config = DefaultConfig()
	}

	model := m.resolveModel(config.Model)
	log := m.logger.With("model", string(model))
	if author := config.Metadata["author"]; author != "" {
		log = log.With("author", author)
	}

	r, gen, err := m.lookup(model)
	if err != nil {
		log.Error("no route for model", "error", err)
		return nil, err
	}

	if err := m.checkRateLimit(model, r.limiter, prompt); err != nil {
		log.Warn("rate limit hit", "error", err)
		return nil, err
	}

	providerConfig := *config
	providerConfig.Model = Model(r.mapping.ActualModelName)

	log.Debug("starting image generation", "prompt_length", len(prompt))
	start := time.Now()
	result, err := gen.Generate(ctx, prompt, &providerConfig)
	elapsed := time.Since(start).Milliseconds()
	if err != nil {
		log.Error("generation failed", "duration_ms", elapsed, "error", err)
		return nil, err
	}

	attrs := []any{"duration_ms", elapsed, "image_count", len(result.Images)}
	if u := result.UsageMetadata; u != nil {
		attrs = append(attrs,
			"prompt_tokens", u.PromptTokens,
			"response_tokens", u.CandidatesTokens,
			"total_tokens", u.TotalTokens,
		)
	}
	log.Info("generation completed", attrs...)
	return result, nil
}

// Models returns all registered model definitions, sorted by name.
func (m *Manager) Models() []ModelInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()

	models := make([]ModelInfo, 0, len(m.routes))
	for _, r := range m.routes {
		if r.info != nil {
			models = append(models, *r.info)
		}
	}
	sort.Slice(models, func(i, j int) bool { return models[i].Name < models[j].Name })
	return models
}

// Close releases all provider resources.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var errs []error
	for provider, gen := range m.providers {
		if err := gen.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing %s: %w", provider, err))
		}
	}
	m.providers = make(map[Provider]ImageGenerator)
	return errors.Join(errs...)
}

// GetModelInfo returns the registered info for model. ModelDefault resolves
// to the manager's default.
func (m *Manager) GetModelInfo(model Model) (*ModelInfo, bool) {
	model = m.resolveModel(model)

	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.routes[model]
	if !ok || r.info == nil {
		return nil, false
	}
	return r.info, true
}

// checkRateLimit consumes the estimated tokens for one request. It never
// waits: a short budget fails the request with a RateLimitError.
func (m *Manager) checkRateLimit(model Model, limiter ratelimiter.Limiter, prompt string) error {
	if limiter == nil {
		return nil
	}

	// Image output tokens are not known up front; reserve a flat amount.
	const tokenBuffer = 100
	estimated := m.tokenEstimator.EstimateTokens(prompt) + tokenBuffer

	if !limiter.TryConsume(estimated) {
		return &RateLimitError{
			RetryAfter: limiter.TimeUntilAvailable(estimated),
			LimitType:  "tokens",
			Model:      string(model),
		}
	}
	return nil
}

func (m *Manager) resolveModel(model Model) Model {
	if model != ModelDefault {
		return model
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultModel
}

// lookup returns the route and provider serving model.
func (m *Manager) lookup(model Model) (*route, ImageGenerator, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.routes[model]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrModelNotRegistered, model)
	}
	gen, ok := m.providers[r.mapping.Provider]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrProviderNotConfigured, r.mapping.Provider)
	}
	return r, gen, nil
}
