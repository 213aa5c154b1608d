package avatargen

import (
	"math"
	"unicode/utf8"
)

// TokenEstimator guesses how many input tokens a prompt will cost. The
// Manager charges the estimate against a model's rate limiter before calling
// the provider.
type TokenEstimator interface {
	EstimateTokens(text string) int
}

// TokenEstimatorFunc adapts a plain function to TokenEstimator.
type TokenEstimatorFunc func(text string) int

func (f TokenEstimatorFunc) EstimateTokens(text string) int { return f(text) }

// RuneTokenEstimator approximates tokens from the rune count of a prompt.
// Portrait prompts are short English prose, so a flat ratio is close enough.
type RuneTokenEstimator struct {
	RunesPerToken float64 // defaults to 4
	SafetyMargin  float64 // multiplier; values below 1 are treated as 1
	Overhead      int     // fixed per-request tokens
}

// NewRuneTokenEstimator returns the estimator the Manager uses by default.
func NewRuneTokenEstimator() *RuneTokenEstimator {
	return &RuneTokenEstimator{RunesPerToken: 4, SafetyMargin: 1.2, Overhead: 3}
}

func (e *RuneTokenEstimator) EstimateTokens(text string) int {
	if text == "" {
		return 0
	}

	ratio := e.RunesPerToken
	if ratio <= 0 {
		ratio = 4
	}
	margin := math.Max(e.SafetyMargin, 1)

	tokens := float64(utf8.RuneCountInString(text)) / ratio * margin
	return int(math.Ceil(tokens)) + e.Overhead
}
