package usecase

import (
	"context"
	"log/slog"

	"github.com/4thel00z/slurp-go/internal/confluence"
	"github.com/4thel00z/slurp-go/internal/domain"
	"github.com/4thel00z/slurp-go/internal/fn"
	"github.com/4thel00z/slurp-go/internal/generator"
	"github.com/4thel00z/slurp-go/internal/htmlnorm"
	"github.com/4thel00z/slurp-go/internal/queue"
	"github.com/4thel00z/slurp-go/internal/store"
)

// Worker consumes Tasks from the queue, downloads and normalizes each
// one, persists it, and — when a generator is configured — turns
// persisted results into question/answer generations.
type Worker struct {
	consumer   *queue.Consumer
	downloader *confluence.Downloader
	normalize  *htmlnorm.Pool
	store      *store.Store
	generator  *generator.Generator
	batchSize  int
	log        *slog.Logger

	downloadChain fn.Stage[*domain.TaskResult, *domain.TaskResult]
}

func NewWorker(
	consumer *queue.Consumer,
	downloader *confluence.Downloader,
	normalize *htmlnorm.Pool,
	st *store.Store,
	gen *generator.Generator,
	batchSize int,
	log *slog.Logger,
) *Worker {
	w := &Worker{
		consumer:   consumer,
		downloader: downloader,
		normalize:  normalize,
		store:      st,
		generator:  gen,
		batchSize:  batchSize,
		log:        log,
	}
	w.downloadChain = buildDownloadChain(normalize, st)
	return w
}

// buildDownloadChain composes the normalize-then-persist mutator chain
// every downloaded TaskResult runs through before it is eligible for
// question generation.
func buildDownloadChain(normalize *htmlnorm.Pool, st *store.Store) fn.Stage[*domain.TaskResult, *domain.TaskResult] {
	return fn.Pipeline(normalize.Normalize, st.PersistTaskResult)
}

// Run drains the consumer's Delivery stream, downloading, acknowledging,
// normalizing and persisting each Task, then fans persisted results into
// single or batched generation runs depending on batchSize. It returns
// once the consumer stream closes or ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	w.log.Info("starting worker run loop")
	defer w.consumer.Close()

	var pending []*domain.TaskResult

	flush := func() {
		if len(pending) == 0 {
			return
		}
		w.generate(ctx, pending, w.batchSize)
		pending = pending[:0]
	}

	fn.Drain(ctx, w.consumer.Stream(ctx), func(ctx context.Context, delivery queue.Delivery) error {
		task := delivery.Task
		w.log.Info("processing task", "idempotency_key", task.IdempotencyKey, "downloader", task.Downloader)

		result, ok := w.downloader.Fetch(ctx, task)
		if !ok {
			if err := delivery.Acknowledge(ctx); err != nil {
				w.log.Warn("acknowledge failed", "idempotency_key", task.IdempotencyKey, "error", err)
			}
			return nil
		}

		// Acknowledge before persistence: a crash after this point is not
		// redelivered, so the task is never persisted twice, but its
		// persistence and generation are lost. Not exactly-once.
		if err := delivery.Acknowledge(ctx); err != nil {
			w.log.Warn("acknowledge failed", "idempotency_key", task.IdempotencyKey, "error", err)
		}

		persisted := w.downloadChain(ctx, result)
		final, err := persisted.Unwrap()
		if err != nil {
			w.log.Warn("download chain failed", "idempotency_key", task.IdempotencyKey, "error", err)
			return nil
		}

		pending = append(pending, final)
		if w.batchSize <= 1 || len(pending) >= w.batchSize {
			flush()
		}
		return nil
	})
	flush()

	w.log.Info("worker run loop finished")
	return nil
}

// generate runs the generator over results, single-document or
// cross-document depending on the configured batchSize — not on how many
// results happened to accumulate, since a batchSize>1 run's final flush
// can land a length-1 remainder that must still take the batch path (its
// per-language cross-page question generation differs from the
// single-document path, not just its reference count). It persists
// whatever Generations come out and is a no-op when no generator is
// configured.
func (w *Worker) generate(ctx context.Context, results []*domain.TaskResult, batchSize int) {
	if w.generator == nil {
		return
	}

	var gens []*domain.Generation
	if batchSize <= 1 {
		if gen, ok := w.generator.Generate(ctx, results[0]); ok {
			gens = []*domain.Generation{gen}
		}
	} else {
		gens = w.generator.GenerateFromBatch(ctx, results)
	}

	for _, gen := range gens {
		r := w.store.PersistGeneration(ctx, gen)
		if _, err := r.Unwrap(); err != nil {
			w.log.Warn("persist generation failed", "error", err)
			continue
		}
		w.log.Info("generated batch persisted", "qa_count", len(gen.QuestionAnswers))
	}
}
