package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"github.com/4thel00z/slurp-go/internal/domain"
)

// Consumer reads Tasks from a Kafka topic under a consumer group,
// committing a decoded Task's offset only on explicit Acknowledge so a
// crash between fetch and acknowledge redelivers the task on restart.
// Messages that fail to decode or validate are committed and skipped.
type Consumer struct {
	config Config
	reader *kafka.Reader
}

func NewConsumer(cfg Config) (*Consumer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        []string{cfg.BootstrapServers},
		Topic:          cfg.Topic,
		GroupID:        cfg.GroupID(),
		StartOffset:    kafka.FirstOffset,
		CommitInterval: 0, // disable auto-commit; Acknowledge commits explicitly
	})
	return &Consumer{config: cfg, reader: reader}, nil
}

// fetched pairs a decoded Task with the raw kafka.Message it came from,
// so Acknowledge can commit the exact offset that produced it.
type fetched struct {
	task domain.Task
	msg  kafka.Message
}

// Stream yields decoded Tasks until ctx is cancelled or the underlying
// reader fails. Each Delivery must be acknowledged once its download has
// finished, successfully or not — acknowledging before normalization and
// persistence, per the pipeline's commit-timing contract, bounds
// redelivery to "download happened at least once" rather than promising
// the full chain ran exactly once.
func (c *Consumer) Stream(ctx context.Context) <-chan Delivery {
	out := make(chan Delivery)
	go func() {
		defer close(out)
		for {
			msg, err := c.reader.FetchMessage(ctx)
			if err != nil {
				return
			}
			var task domain.Task
			if err := json.Unmarshal(msg.Value, &task); err != nil || task.Validate() != nil {
				// Structural failure: cannot be retried into validity, drop
				// and move on rather than wedging the partition.
				c.reader.CommitMessages(ctx, msg)
				continue
			}
			select {
			case out <- Delivery{Task: task, consumer: c, msg: msg}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Delivery couples a decoded Task with the means to acknowledge it.
type Delivery struct {
	Task     domain.Task
	consumer *Consumer
	msg      kafka.Message
}

// Acknowledge commits the offset for this delivery.
func (d Delivery) Acknowledge(ctx context.Context) error {
	if err := d.consumer.reader.CommitMessages(ctx, d.msg); err != nil {
		return fmt.Errorf("queue: commit offset: %w", err)
	}
	return nil
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
