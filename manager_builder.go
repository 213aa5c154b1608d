package avatargen

import (
	"log/slog"
)

// ManagerOption configures the Manager.
type ManagerOption func(*Manager)

// WithLogger sets a structured logger for the manager.
func WithLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithDefaultModel sets the default model used when config.Model is empty.
func WithDefaultModel(model Model) ManagerOption {
	return func(m *Manager) {
		if model != ModelDefault {
			m.defaultModel = model
		}
	}
}

// WithTokenEstimator replaces the estimator used for rate limit accounting.
func WithTokenEstimator(estimator TokenEstimator) ManagerOption {
	return func(m *Manager) {
		m.tokenEstimator = estimator
	}
}

// NewManager creates a Manager with the given provider and options.
// The provider's first model becomes the default unless WithDefaultModel
// says otherwise.
//
// Example:
//
//	gen, err := gemini.NewWithAPIKey(ctx, apiKey)
//	if err != nil {
//	    return err
//	}
//	manager := avatargen.NewManager(gen,
//	    avatargen.WithLogger(slog.Default()),
//	    avatargen.WithDefaultModel(avatargen.ModelNanoBanana2),
//	)
func NewManager(defaultProvider ImageGenerator, opts ...ManagerOption) *Manager {
	m := New()

	models := defaultProvider.Models()
	for i := range models {
		info := &models[i]

		m.providers[info.Provider] = defaultProvider

		m.RegisterModel(Model(info.Name),
			ModelMapping{
				Provider:        info.Provider,
				ActualModelName: info.APIModelName,
			},
			info)
	}
	if len(models) > 0 {
		m.defaultModel = Model(models[0].Name)
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}
