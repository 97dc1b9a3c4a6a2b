package jobs

import (
	"context"
	"log/slog"
	"time"

	"storefront/internal/models"
)

// BatchResolver answers every pending query.
type BatchResolver interface {
	ResolveAllPending(ctx context.Context) (*models.BatchResolveResponse, error)
}

// AutoResponder periodically answers pending queries in the background.
type AutoResponder struct {
	resolver BatchResolver
	interval time.Duration
}

// NewAutoResponder creates a new auto-responder job.
func NewAutoResponder(resolver BatchResolver, interval time.Duration) *AutoResponder {
	return &AutoResponder{resolver: resolver, interval: interval}
}

// Start runs the loop until ctx is canceled. It always returns nil so it can
// run inside an errgroup next to the HTTP server.
func (a *AutoResponder) Start(ctx context.Context) error {
	slog.Info("auto-responder started", "interval", a.interval)

	// Run immediately on start
	a.runOnce(ctx)

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("auto-responder stopped")
			return nil
		case <-ticker.C:
			a.runOnce(ctx)
		}
	}
}

// runOnce resolves one batch and logs the outcome.
func (a *AutoResponder) runOnce(ctx context.Context) {
	batch, err := a.resolver.ResolveAllPending(ctx)
	if err != nil {
		if batch != nil && batch.ProcessedCount > 0 {
			slog.Info("auto-responder: batch interrupted", "processed", batch.ProcessedCount, "failed", len(batch.Failures))
		}
		if ctx.Err() == nil {
			slog.Error("auto-responder: batch failed", "error", err)
		}
		return
	}

	if batch.ProcessedCount == 0 && len(batch.Failures) == 0 {
		return
	}
	slog.Info("auto-responder: batch complete", "processed", batch.ProcessedCount, "failed", len(batch.Failures))
}
