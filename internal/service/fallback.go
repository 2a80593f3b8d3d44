package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"speakwise/internal/upstream"
)

// Source is one candidate provider in an ordered fallback chain.
type Source[T any] struct {
	Name  string
	Fetch func(ctx context.Context) (T, error)
}

// firstSuccessful evaluates sources in order and returns the first result.
// A not-found failure falls through silently; any other failure falls through
// with a warning. Each source is tried at most once. The last source's error
// is returned when everything fails.
func firstSuccessful[T any](ctx context.Context, logger zerolog.Logger, sources ...Source[T]) (T, error) {
	var zero T
	var lastErr error
	for _, source := range sources {
		result, err := source.Fetch(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if !errors.Is(err, upstream.ErrNotFound) {
			logger.Warn().Err(err).Str("source", source.Name).Msg("data source degraded, falling back")
		}
	}
	return zero, lastErr
}
