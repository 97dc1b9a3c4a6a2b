package metrics

import (
	"context"
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"storefront/internal/models"
)

var (
	resolutionDesc = prometheus.NewDesc(
		"storefront_query_resolutions_total",
		"Total automated query resolutions by response source",
		[]string{"source"},
		nil,
	)
)

// OutcomeStore persists resolution counters.
type OutcomeStore interface {
	IncrementResolutionOutcome(ctx context.Context, source string) error
	GetAllResolutionOutcomes(ctx context.Context) ([]models.ResolutionOutcome, error)
}

// ResolutionCollector is a custom Prometheus collector that reads resolution
// counts from the database on each scrape, so every replica reports the same
// totals.
type ResolutionCollector struct {
	store OutcomeStore
}

// NewResolutionCollector creates a collector backed by store.
func NewResolutionCollector(store OutcomeStore) *ResolutionCollector {
	return &ResolutionCollector{store: store}
}

// Describe sends the metric descriptor to the channel.
func (c *ResolutionCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- resolutionDesc
}

// Collect queries the database for all outcomes and emits them as counters.
func (c *ResolutionCollector) Collect(ch chan<- prometheus.Metric) {
	outcomes, err := c.store.GetAllResolutionOutcomes(context.Background())
	if err != nil {
		slog.Error("failed to collect resolution metrics", "error", err)
		return
	}
	for _, o := range outcomes {
		ch <- prometheus.MustNewConstMetric(
			resolutionDesc,
			prometheus.CounterValue,
			float64(o.Count),
			o.Source,
		)
	}
}

// Recorder provides async resolution recording.
type Recorder struct {
	store OutcomeStore
	wg    sync.WaitGroup
}

var (
	recorder     *Recorder
	recorderOnce sync.Once
)

// Init registers the custom collector and initializes the recorder.
// Must be called once at startup.
func Init(store OutcomeStore) {
	recorderOnce.Do(func() {
		recorder = &Recorder{store: store}
		prometheus.MustRegister(NewResolutionCollector(store))
	})
}

// RecordResolution asynchronously counts one automated resolution by source.
// It is a no-op until Init has been called.
func RecordResolution(source string) {
	if recorder == nil {
		return
	}
	recorder.wg.Add(1)
	go func() {
		defer recorder.wg.Done()
		if err := recorder.store.IncrementResolutionOutcome(context.Background(), source); err != nil {
			slog.Error("failed to record resolution", "source", source, "error", err)
		}
	}()
}

// Flush waits for in-flight recordings to finish. Called on shutdown.
func Flush() {
	if recorder == nil {
		return
	}
	recorder.wg.Wait()
}
