package autorespond

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"storefront/internal/db"
	"storefront/internal/events"
	"storefront/internal/matcher"
	"storefront/internal/models"
)

type fakeStore struct {
	mu        sync.Mutex
	queries   []*models.Query
	responses []models.AutomatedResponse

	// beforeResolve runs inside ResolveQuery before the status check.
	beforeResolve func(id uuid.UUID)
	listErr       error
}

func (f *fakeStore) add(message, status string) *models.Query {
	q := &models.Query{ID: uuid.New(), Name: "Customer", Email: "c@example.com", Message: message, Status: status}
	f.queries = append(f.queries, q)
	return q
}

func (f *fakeStore) find(id uuid.UUID) *models.Query {
	for _, q := range f.queries {
		if q.ID == id {
			return q
		}
	}
	return nil
}

func (f *fakeStore) GetQueryByID(_ context.Context, id uuid.UUID) (*models.Query, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	q := f.find(id)
	if q == nil {
		return nil, db.ErrQueryNotFound
	}
	cp := *q
	return &cp, nil
}

func (f *fakeStore) ListPendingQueries(context.Context) ([]models.Query, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Query
	for _, q := range f.queries {
		if !q.IsResolved() {
			out = append(out, *q)
		}
	}
	return out, nil
}

func (f *fakeStore) ListAutomatedResponses(context.Context) ([]models.AutomatedResponse, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.responses, nil
}

func (f *fakeStore) ResolveQuery(_ context.Context, id uuid.UUID, res models.QueryResolution) (*models.Query, error) {
	if f.beforeResolve != nil {
		f.beforeResolve(id)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	q := f.find(id)
	if q == nil {
		return nil, db.ErrQueryNotFound
	}
	if q.IsResolved() {
		return nil, db.ErrQueryAlreadyResolved
	}
	q.Status = models.QueryStatusResolved
	q.ResolvedBy = &res.ResolvedBy
	date := res.ResolutionDate
	q.ResolutionDate = &date
	q.AutomatedResponse = res.AutomatedResponse
	q.AutoResolved = res.AutoResolved
	cp := *q
	return &cp, nil
}

func (f *fakeStore) delete(id uuid.UUID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, q := range f.queries {
		if q.ID == id {
			f.queries = append(f.queries[:i], f.queries[i+1:]...)
			return
		}
	}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.QueryResolved
	err    error
}

func (p *recordingPublisher) PublishQueryResolved(_ context.Context, ev events.QueryResolved) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

type recordingNotifier struct {
	notified []uuid.UUID
}

func (n *recordingNotifier) NotifyQueryResolved(_ context.Context, q *models.Query) {
	n.notified = append(n.notified, q.ID)
}

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestService(store *fakeStore, opts ...Option) *Service {
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return NewService(store, matcher.NewResolver(0), opts...)
}

func standardResponses() []models.AutomatedResponse {
	return []models.AutomatedResponse{
		{ID: uuid.New(), Keywords: []string{"price", "cost"}, ResponseText: "Our prices are listed on the product page."},
		{ID: uuid.New(), ResponseText: "Standard shipping takes three days."},
		{ID: uuid.New(), ResponseText: "We appreciate your feedback!", IsDefault: true},
	}
}

func TestResolveQuery(t *testing.T) {
	store := &fakeStore{responses: standardResponses()}
	q := store.add("What is the price of the flash drive?", models.QueryStatusOpen)
	pub := &recordingPublisher{}
	notifier := &recordingNotifier{}
	svc := newTestService(store, WithPublisher(pub), WithNotifier(notifier))

	updated, result, err := svc.ResolveQuery(context.Background(), q.ID)
	if err != nil {
		t.Fatalf("ResolveQuery() error = %v", err)
	}

	if result.Source != matcher.SourceKeyword {
		t.Errorf("ResolveQuery() source = %q, want %q", result.Source, matcher.SourceKeyword)
	}
	if updated.Status != models.QueryStatusResolved {
		t.Errorf("status = %q, want %q", updated.Status, models.QueryStatusResolved)
	}
	if *updated.AutomatedResponse != "Our prices are listed on the product page." {
		t.Errorf("automatedResponse = %q", *updated.AutomatedResponse)
	}
	if !updated.AutoResolved {
		t.Error("autoResolved = false, want true")
	}
	if *updated.ResolvedBy != models.AutomatedResolver {
		t.Errorf("resolvedBy = %q, want %q", *updated.ResolvedBy, models.AutomatedResolver)
	}
	if !updated.ResolutionDate.Equal(fixedNow) {
		t.Errorf("resolutionDate = %v, want %v", updated.ResolutionDate, fixedNow)
	}

	if len(pub.events) != 1 || pub.events[0].QueryID != q.ID || pub.events[0].Source != "keyword" {
		t.Errorf("published events = %+v, want one keyword event for %v", pub.events, q.ID)
	}
	if len(notifier.notified) != 1 || notifier.notified[0] != q.ID {
		t.Errorf("notified = %v, want [%v]", notifier.notified, q.ID)
	}
}

func TestResolveQuery_Errors(t *testing.T) {
	store := &fakeStore{responses: standardResponses()}
	resolved := store.add("old", models.QueryStatusResolved)
	svc := newTestService(store)

	if _, _, err := svc.ResolveQuery(context.Background(), uuid.New()); !errors.Is(err, db.ErrQueryNotFound) {
		t.Errorf("ResolveQuery() unknown id error = %v, want %v", err, db.ErrQueryNotFound)
	}
	if _, _, err := svc.ResolveQuery(context.Background(), resolved.ID); !errors.Is(err, db.ErrQueryAlreadyResolved) {
		t.Errorf("ResolveQuery() resolved error = %v, want %v", err, db.ErrQueryAlreadyResolved)
	}
	if resolved.ResolvedBy != nil || resolved.AutomatedResponse != nil {
		t.Error("ResolveQuery() modified an already resolved query")
	}
}

func TestResolveQuery_LosesRace(t *testing.T) {
	store := &fakeStore{responses: standardResponses()}
	q := store.add("shipping?", models.QueryStatusOpen)
	pub := &recordingPublisher{}
	store.beforeResolve = func(id uuid.UUID) {
		store.mu.Lock()
		store.find(id).Status = models.QueryStatusResolved
		store.mu.Unlock()
	}
	svc := newTestService(store, WithPublisher(pub))

	_, _, err := svc.ResolveQuery(context.Background(), q.ID)
	if !errors.Is(err, db.ErrQueryAlreadyResolved) {
		t.Errorf("ResolveQuery() error = %v, want %v", err, db.ErrQueryAlreadyResolved)
	}
	if len(pub.events) != 0 {
		t.Errorf("published %d events for a lost race, want 0", len(pub.events))
	}
}

func TestResolveQuery_NoCandidates(t *testing.T) {
	store := &fakeStore{}
	q := store.add("Anything at all", models.QueryStatusOpen)
	svc := newTestService(store)

	updated, result, err := svc.ResolveQuery(context.Background(), q.ID)
	if err != nil {
		t.Fatalf("ResolveQuery() error = %v", err)
	}
	if result.Source != matcher.SourceFallback {
		t.Errorf("source = %q, want %q", result.Source, matcher.SourceFallback)
	}
	if *updated.AutomatedResponse != matcher.FallbackResponse {
		t.Errorf("automatedResponse = %q, want fallback", *updated.AutomatedResponse)
	}
}

func TestResolveQuery_PublishErrorDoesNotFail(t *testing.T) {
	store := &fakeStore{responses: standardResponses()}
	q := store.add("price?", models.QueryStatusOpen)
	svc := newTestService(store, WithPublisher(&recordingPublisher{err: errors.New("broker down")}))

	if _, _, err := svc.ResolveQuery(context.Background(), q.ID); err != nil {
		t.Errorf("ResolveQuery() error = %v, want nil when publishing fails", err)
	}
}

func TestResolveAllPending(t *testing.T) {
	store := &fakeStore{responses: standardResponses()}
	priceQ := store.add("What is the price?", models.QueryStatusOpen)
	shipQ := store.add("How long does shipping take?", models.QueryStatusOpen)
	thanksQ := store.add("I love your amazing customer service", models.QueryStatusOpen)
	store.add("already done", models.QueryStatusResolved)
	svc := newTestService(store)

	batch, err := svc.ResolveAllPending(context.Background())
	if err != nil {
		t.Fatalf("ResolveAllPending() error = %v", err)
	}

	if batch.ProcessedCount != 3 {
		t.Errorf("processedCount = %d, want 3", batch.ProcessedCount)
	}
	if batch.Message != "Automatically responded to 3 queries" {
		t.Errorf("message = %q", batch.Message)
	}
	if len(batch.Failures) != 0 {
		t.Errorf("failures = %+v, want none", batch.Failures)
	}

	want := map[uuid.UUID]string{
		priceQ.ID:  "Our prices are listed on the product page.",
		shipQ.ID:   "Standard shipping takes three days.",
		thanksQ.ID: "We appreciate your feedback!",
	}
	for _, q := range batch.UpdatedQueries {
		if *q.AutomatedResponse != want[q.ID] {
			t.Errorf("query %q answered %q, want %q", q.Message, *q.AutomatedResponse, want[q.ID])
		}
	}
}

func TestResolveAllPending_PerItemFailure(t *testing.T) {
	store := &fakeStore{responses: standardResponses()}
	first := store.add("price please", models.QueryStatusOpen)
	doomed := store.add("shipping please", models.QueryStatusOpen)
	last := store.add("thanks", models.QueryStatusOpen)
	store.beforeResolve = func(id uuid.UUID) {
		if id == doomed.ID {
			store.delete(id)
		}
	}
	svc := newTestService(store)

	batch, err := svc.ResolveAllPending(context.Background())
	if err != nil {
		t.Fatalf("ResolveAllPending() error = %v", err)
	}

	if batch.ProcessedCount != 2 {
		t.Errorf("processedCount = %d, want 2", batch.ProcessedCount)
	}
	if len(batch.Failures) != 1 || batch.Failures[0].QueryID != doomed.ID {
		t.Fatalf("failures = %+v, want one for %v", batch.Failures, doomed.ID)
	}
	if batch.Failures[0].Error != db.ErrQueryNotFound.Error() {
		t.Errorf("failure error = %q, want %q", batch.Failures[0].Error, db.ErrQueryNotFound.Error())
	}
	got := []uuid.UUID{batch.UpdatedQueries[0].ID, batch.UpdatedQueries[1].ID}
	if got[0] != first.ID || got[1] != last.ID {
		t.Errorf("updated = %v, want [%v %v]", got, first.ID, last.ID)
	}
}

func TestResolveAllPending_Cancelled(t *testing.T) {
	store := &fakeStore{responses: standardResponses()}
	first := store.add("price please", models.QueryStatusOpen)
	second := store.add("shipping please", models.QueryStatusOpen)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	store.beforeResolve = func(id uuid.UUID) {
		if id == first.ID {
			cancel()
		}
	}
	svc := newTestService(store)

	batch, err := svc.ResolveAllPending(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("ResolveAllPending() error = %v, want %v", err, context.Canceled)
	}
	if batch == nil {
		t.Fatal("ResolveAllPending() batch = nil, want the queries written before cancellation")
	}
	if batch.ProcessedCount != 1 || len(batch.UpdatedQueries) != 1 || batch.UpdatedQueries[0].ID != first.ID {
		t.Errorf("batch = %+v, want only %v", batch, first.ID)
	}

	got := store.find(second.ID)
	if got.IsResolved() {
		t.Error("query after cancellation was resolved, want still open")
	}
}

func TestResolveAllPending_Empty(t *testing.T) {
	svc := newTestService(&fakeStore{responses: standardResponses()})

	batch, err := svc.ResolveAllPending(context.Background())
	if err != nil {
		t.Fatalf("ResolveAllPending() error = %v", err)
	}
	if batch.ProcessedCount != 0 || batch.UpdatedQueries == nil {
		t.Errorf("batch = %+v, want zero processed and an empty list", batch)
	}
}

func TestResolveAllPending_LoadError(t *testing.T) {
	store := &fakeStore{listErr: errors.New("connection reset")}
	store.add("hi", models.QueryStatusOpen)
	svc := newTestService(store)

	if _, err := svc.ResolveAllPending(context.Background()); err == nil {
		t.Error("ResolveAllPending() error = nil, want load failure")
	}
}

func TestResolveManually(t *testing.T) {
	store := &fakeStore{}
	q := store.add("Can I return a gift?", models.QueryStatusOpen)
	pub := &recordingPublisher{}
	notifier := &recordingNotifier{}
	svc := newTestService(store, WithPublisher(pub), WithNotifier(notifier))

	answer := "Yes, within 30 days."
	updated, err := svc.ResolveManually(context.Background(), q.ID, "Sales Rep", &answer)
	if err != nil {
		t.Fatalf("ResolveManually() error = %v", err)
	}
	if updated.AutoResolved {
		t.Error("autoResolved = true for a manual resolution")
	}
	if *updated.ResolvedBy != "Sales Rep" {
		t.Errorf("resolvedBy = %q, want %q", *updated.ResolvedBy, "Sales Rep")
	}
	if len(pub.events) != 1 || pub.events[0].Source != SourceManual {
		t.Errorf("events = %+v, want one manual event", pub.events)
	}
	if len(notifier.notified) != 1 {
		t.Errorf("notified %d customers, want 1", len(notifier.notified))
	}

	if _, err := svc.ResolveManually(context.Background(), q.ID, "Someone", nil); !errors.Is(err, db.ErrQueryAlreadyResolved) {
		t.Errorf("ResolveManually() second call error = %v, want %v", err, db.ErrQueryAlreadyResolved)
	}
}

func TestPreview(t *testing.T) {
	store := &fakeStore{responses: standardResponses()}
	svc := newTestService(store)

	result, err := svc.Preview(context.Background(), "how much does it cost?")
	if err != nil {
		t.Fatalf("Preview() error = %v", err)
	}
	if result.Source != matcher.SourceKeyword {
		t.Errorf("Preview() source = %q, want %q", result.Source, matcher.SourceKeyword)
	}
	if len(store.queries) != 0 {
		t.Error("Preview() persisted a query")
	}
}
