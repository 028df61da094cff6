package insights

import (
	"context"
	"log/slog"

	"finpulse/internal/core"
)

// FallbackMessage is the single observation shown when the remote call
// fails for any reason.
const FallbackMessage = "Unable to generate insights at this moment. Please try again later."

// Service wraps a Generator with the failure contract the rest of the
// system relies on: callers always get at least one displayable string and
// never an error. Every refresh issues one fresh call; there is no retry
// and no caching.
type Service struct {
	generator Generator
}

func NewService(generator Generator) *Service {
	return &Service{generator: generator}
}

// Observations returns the model's observations, or exactly one fallback
// string when the call fails or yields nothing.
func (s *Service) Observations(ctx context.Context, txns []core.Transaction, goals []core.Goal) []string {
	observations, err := s.generator.Observations(ctx, txns, goals)
	if err != nil {
		slog.ErrorContext(ctx, "Insight generation failed", "error", err)
		return []string{FallbackMessage}
	}
	if len(observations) == 0 {
		return []string{FallbackMessage}
	}
	return observations
}
