// Package usecase wires the confluence, queue, htmlnorm, store and
// generator packages into the two pipelines the corpus is built from:
// scraping pages onto the queue, and consuming the queue into persisted
// results and generations.
package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/4thel00z/slurp-go/internal/confluence"
	"github.com/4thel00z/slurp-go/internal/fn"
	"github.com/4thel00z/slurp-go/internal/queue"
)

// Scraper streams Tasks from a producer and submits each one to the
// queue, one page at a time, until the producer's stream closes or the
// context is cancelled.
type Scraper struct {
	producer  *confluence.Producer
	submitter *queue.Submitter
	log       *slog.Logger
}

func NewScraper(producer *confluence.Producer, submitter *queue.Submitter, log *slog.Logger) *Scraper {
	return &Scraper{producer: producer, submitter: submitter, log: log}
}

// Run drains the producer's Task stream into the queue and returns the
// number of tasks handed to Submit, counting a task whose submission
// failed, together with the first submission error encountered.
func (s *Scraper) Run(ctx context.Context) (int, error) {
	s.log.Info("starting scraper", "producer", s.producer.Name())
	defer s.submitter.Close()

	n := 0
	for enum := range fn.Enumerate(ctx, s.producer.Stream(ctx), 1) {
		task := enum.Value
		n = enum.Index
		s.log.Info("submitting task", "n", n, "title", task.Title, "idempotency_key", task.IdempotencyKey)
		if err := s.submitter.Submit(ctx, task); err != nil {
			return n, fmt.Errorf("usecase: submit task %q: %w", task.IdempotencyKey, err)
		}
	}
	s.log.Info("scraper completed", "submitted", n)
	return n, nil
}
