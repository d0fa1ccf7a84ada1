// Package queue submits and consumes Task messages on a durable,
// partitioned, at-least-once log, keyed by idempotency key so retries and
// redeliveries land on the same partition.
package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"github.com/4thel00z/slurp-go/internal/domain"
)

// Submitter publishes Tasks to a Kafka topic.
type Submitter struct {
	config Config
	writer *kafka.Writer
}

func NewSubmitter(cfg Config) (*Submitter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.BootstrapServers),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
	}
	return &Submitter{config: cfg, writer: writer}, nil
}

// Submit serializes and durably writes task, keyed by its idempotency
// key so repeated submissions of the same logical task partition
// together.
func (s *Submitter) Submit(ctx context.Context, task domain.Task) error {
	payload, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("queue: marshal task: %w", err)
	}
	return s.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(task.IdempotencyKey),
		Value: payload,
	})
}

// Close flushes any buffered writes and releases the underlying
// connections.
func (s *Submitter) Close() error {
	return s.writer.Close()
}
