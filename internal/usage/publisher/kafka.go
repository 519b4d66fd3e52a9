// Package publisher forwards usage events to a Kafka-compatible stream.
package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"

	"bankqr/internal/usage"
	"bankqr/internal/usage/metrics"
)

// KafkaPublisher produces one JSON record per usage event, keyed by day.
// Produce is asynchronous; delivery failures are logged and counted only.
type KafkaPublisher struct {
	client  *kgo.Client
	topic   string
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*KafkaPublisher)

func WithLogger(logger *slog.Logger) Option {
	return func(p *KafkaPublisher) {
		p.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(p *KafkaPublisher) {
		p.metrics = m
	}
}

// NewKafka connects lazily; a broker that is down surfaces as produce errors.
func NewKafka(brokers []string, topic string, opts ...Option) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers are required")
	}
	if topic == "" {
		return nil, fmt.Errorf("kafka topic is required")
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.AllowAutoTopicCreation(),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return newWithClient(client, topic, opts...), nil
}

func newWithClient(client *kgo.Client, topic string, opts ...Option) *KafkaPublisher {
	p := &KafkaPublisher{client: client, topic: topic, logger: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *KafkaPublisher) Publish(ctx context.Context, event usage.Event) {
	value, err := json.Marshal(event)
	if err != nil {
		p.metrics.IncrementPublishError()
		p.logger.ErrorContext(ctx, "failed to encode usage event", "error", err)
		return
	}
	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(event.Day),
		Value: value,
	}
	p.client.Produce(context.WithoutCancel(ctx), record, func(r *kgo.Record, err error) {
		if err != nil {
			p.metrics.IncrementPublishError()
			p.logger.Warn("usage event not delivered",
				"topic", r.Topic,
				"day", event.Day,
				"label", event.Label,
				"error", err,
			)
		}
	})
}

// Close flushes buffered records and closes the client.
func (p *KafkaPublisher) Close(ctx context.Context) error {
	err := p.client.Flush(ctx)
	p.client.Close()
	return err
}
