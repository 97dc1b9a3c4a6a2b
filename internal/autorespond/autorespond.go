// Package autorespond answers customer queries with canned responses and
// records the result.
package autorespond

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"storefront/internal/db"
	"storefront/internal/events"
	"storefront/internal/matcher"
	"storefront/internal/metrics"
	"storefront/internal/models"
)

// SourceManual is the event source for staff resolutions.
const SourceManual = "manual"

// Store is the persistence the service needs.
type Store interface {
	GetQueryByID(ctx context.Context, id uuid.UUID) (*models.Query, error)
	ListPendingQueries(ctx context.Context) ([]models.Query, error)
	ListAutomatedResponses(ctx context.Context) ([]models.AutomatedResponse, error)
	ResolveQuery(ctx context.Context, id uuid.UUID, res models.QueryResolution) (*models.Query, error)
}

// Notifier tells the customer their query was answered.
type Notifier interface {
	NotifyQueryResolved(ctx context.Context, q *models.Query)
}

// Service resolves queries against the current set of automated responses.
type Service struct {
	store     Store
	resolver  *matcher.Resolver
	publisher events.Publisher
	notifier  Notifier
	now       func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithPublisher sets the event publisher. Defaults to events.NopPublisher.
func WithPublisher(p events.Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithNotifier sets the customer notifier. Defaults to none.
func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// WithClock overrides the time source used for resolution dates.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a service.
func NewService(store Store, resolver *matcher.Resolver, opts ...Option) *Service {
	s := &Service{
		store:     store,
		resolver:  resolver,
		publisher: events.NopPublisher{},
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Preview returns the response message would receive, without persisting anything.
func (s *Service) Preview(ctx context.Context, message string) (matcher.Result, error) {
	candidates, err := s.store.ListAutomatedResponses(ctx)
	if err != nil {
		return matcher.Result{}, fmt.Errorf("failed to load responses: %w", err)
	}
	return s.resolver.ResolveOne(message, candidates), nil
}

// ResolveQuery answers one query automatically. It returns db.ErrQueryNotFound
// for an unknown ID and db.ErrQueryAlreadyResolved if the query is resolved,
// either before scoring or by a concurrent writer before the write-back.
func (s *Service) ResolveQuery(ctx context.Context, id uuid.UUID) (*models.Query, matcher.Result, error) {
	q, err := s.store.GetQueryByID(ctx, id)
	if err != nil {
		return nil, matcher.Result{}, err
	}
	if q.IsResolved() {
		return nil, matcher.Result{}, db.ErrQueryAlreadyResolved
	}

	candidates, err := s.store.ListAutomatedResponses(ctx)
	if err != nil {
		return nil, matcher.Result{}, fmt.Errorf("failed to load responses: %w", err)
	}

	result := s.resolver.ResolveOne(q.Message, candidates)
	updated, err := s.apply(ctx, q.ID, result)
	if err != nil {
		return nil, result, err
	}
	return updated, result, nil
}

// ResolveAllPending answers every query that is not yet resolved, using one
// snapshot of the automated responses. A query that cannot be written back is
// reported as a failure and does not stop the batch; ProcessedCount counts
// successes only. If ctx is cancelled mid-batch, the queries written so far
// are returned along with the context error.
func (s *Service) ResolveAllPending(ctx context.Context) (*models.BatchResolveResponse, error) {
	pending, err := s.store.ListPendingQueries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load pending queries: %w", err)
	}
	candidates, err := s.store.ListAutomatedResponses(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load responses: %w", err)
	}

	batch := &models.BatchResolveResponse{UpdatedQueries: []models.Query{}}
	for _, r := range s.resolver.ResolveAllPending(pending, candidates) {
		if err := ctx.Err(); err != nil {
			batch.ProcessedCount = len(batch.UpdatedQueries)
			batch.Message = fmt.Sprintf("Interrupted after responding to %d queries", batch.ProcessedCount)
			return batch, err
		}

		updated, err := s.apply(ctx, r.Query.ID, r.Result)
		if err != nil {
			slog.Warn("auto-respond failed for query", "query_id", r.Query.ID, "error", err)
			batch.Failures = append(batch.Failures, models.ResolutionFailure{
				QueryID: r.Query.ID,
				Error:   err.Error(),
			})
			continue
		}
		batch.UpdatedQueries = append(batch.UpdatedQueries, *updated)
	}

	batch.ProcessedCount = len(batch.UpdatedQueries)
	batch.Message = fmt.Sprintf("Automatically responded to %d queries", batch.ProcessedCount)
	return batch, nil
}

// ResolveManually marks a query resolved by a staff member. The optional
// response is stored as the answer sent to the customer.
func (s *Service) ResolveManually(ctx context.Context, id uuid.UUID, resolvedBy string, response *string) (*models.Query, error) {
	updated, err := s.store.ResolveQuery(ctx, id, models.QueryResolution{
		ResolvedBy:        resolvedBy,
		ResolutionDate:    s.now().UTC(),
		AutomatedResponse: response,
	})
	if err != nil {
		return nil, err
	}

	ev := events.QueryResolved{QueryID: updated.ID, Source: SourceManual, ResolvedBy: resolvedBy}
	if response != nil {
		ev.ResponseText = *response
	}
	if updated.ResolutionDate != nil {
		ev.ResolvedAt = *updated.ResolutionDate
	}
	if err := s.publisher.PublishQueryResolved(ctx, ev); err != nil {
		slog.Error("failed to publish query resolved event", "query_id", updated.ID, "error", err)
	}
	if s.notifier != nil && response != nil {
		s.notifier.NotifyQueryResolved(ctx, updated)
	}

	return updated, nil
}

// apply writes result back to the query and runs the follow-up side effects.
func (s *Service) apply(ctx context.Context, id uuid.UUID, result matcher.Result) (*models.Query, error) {
	text := result.ResponseText
	updated, err := s.store.ResolveQuery(ctx, id, models.QueryResolution{
		ResolvedBy:        models.AutomatedResolver,
		ResolutionDate:    s.now().UTC(),
		AutomatedResponse: &text,
		AutoResolved:      true,
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordResolution(string(result.Source))

	ev := events.QueryResolved{
		QueryID:      updated.ID,
		Source:       string(result.Source),
		Score:        result.Score,
		ResponseText: text,
		ResolvedBy:   models.AutomatedResolver,
		AutoResolved: true,
	}
	if updated.ResolutionDate != nil {
		ev.ResolvedAt = *updated.ResolutionDate
	}
	if err := s.publisher.PublishQueryResolved(ctx, ev); err != nil {
		slog.Error("failed to publish query resolved event", "query_id", updated.ID, "error", err)
	}

	if s.notifier != nil {
		s.notifier.NotifyQueryResolved(ctx, updated)
	}

	slog.Info("query auto-resolved", "query_id", updated.ID, "source", result.Source, "score", result.Score)
	return updated, nil
}
