// Package events publishes domain events to Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
)

// QueryResolvedType is the event type written to the ce_type header.
const QueryResolvedType = "query.resolved"

// QueryResolved is published after a query moves to resolved.
type QueryResolved struct {
	QueryID      uuid.UUID `json:"queryId"`
	Source       string    `json:"source"`
	Score        float64   `json:"score"`
	ResponseText string    `json:"responseText"`
	ResolvedBy   string    `json:"resolvedBy"`
	AutoResolved bool      `json:"autoResolved"`
	ResolvedAt   time.Time `json:"resolvedAt"`
}

// Publisher sends domain events.
type Publisher interface {
	PublishQueryResolved(ctx context.Context, ev QueryResolved) error
	Close() error
}

// NopPublisher discards every event. Used when Kafka is not configured.
type NopPublisher struct{}

// PublishQueryResolved does nothing.
func (NopPublisher) PublishQueryResolved(context.Context, QueryResolved) error { return nil }

// Close does nothing.
func (NopPublisher) Close() error { return nil }

// KafkaConfig holds producer settings.
type KafkaConfig struct {
	Brokers  []string
	Topic    string
	Username string
	Password string
}

// NewSaramaConfig builds the producer configuration. SASL/PLAIN is enabled when
// credentials are set.
func NewSaramaConfig(cfg KafkaConfig) *sarama.Config {
	sc := sarama.NewConfig()
	sc.ClientID = "storefront"
	sc.Producer.RequiredAcks = sarama.WaitForAll
	sc.Producer.Retry.Max = 3
	sc.Producer.Return.Successes = true
	sc.Producer.Partitioner = sarama.NewHashPartitioner

	if cfg.Username != "" && cfg.Password != "" {
		sc.Net.SASL.Enable = true
		sc.Net.SASL.Mechanism = sarama.SASLTypePlaintext
		sc.Net.SASL.User = cfg.Username
		sc.Net.SASL.Password = cfg.Password
		sc.Net.SASL.Handshake = true
	}
	return sc
}

// KafkaPublisher publishes events with a synchronous sarama producer. Messages
// are keyed by query ID so events for one query stay on one partition.
type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
}

// NewKafkaPublisher connects a producer to the configured brokers.
func NewKafkaPublisher(cfg KafkaConfig) (*KafkaPublisher, error) {
	producer, err := sarama.NewSyncProducer(cfg.Brokers, NewSaramaConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	return NewKafkaPublisherWithProducer(producer, cfg.Topic), nil
}

// NewKafkaPublisherWithProducer wraps an existing producer.
func NewKafkaPublisherWithProducer(producer sarama.SyncProducer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

// PublishQueryResolved sends ev as JSON.
func (p *KafkaPublisher) PublishQueryResolved(ctx context.Context, ev QueryResolved) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	value, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(ev.QueryID.String()),
		Value: sarama.ByteEncoder(value),
		Headers: []sarama.RecordHeader{
			{Key: []byte("ce_type"), Value: []byte(QueryResolvedType)},
		},
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", QueryResolvedType, err)
	}

	slog.Debug("event published", "type", QueryResolvedType, "query_id", ev.QueryID, "partition", partition, "offset", offset)
	return nil
}

// Close flushes and closes the producer.
func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}
