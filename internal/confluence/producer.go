package confluence

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/4thel00z/slurp-go/internal/domain"
	"github.com/4thel00z/slurp-go/internal/fn"
)

// Producer enumerates a Confluence space's pages and emits one Task per
// page that passes the recency filter.
type Producer struct {
	config    Config
	genConfig GeneratorDefaults
	client    *client
	log       *slog.Logger
}

// GeneratorDefaults carries the language/difficulty/temperature every
// emitted Task is stamped with — these come from the generator's
// configuration, not Confluence, because the producer has no opinion on
// how the worker will later question the page.
type GeneratorDefaults struct {
	Language    domain.Language
	Difficulty  domain.Difficulty
	Temperature float64
}

func NewProducer(cfg Config, gen GeneratorDefaults, log *slog.Logger) *Producer {
	return &Producer{config: cfg, genConfig: gen, client: newClient(cfg), log: log}
}

func (p *Producer) Name() string { return "confluence" }

// monthsBackPredicate returns a filter matching the original's fail-open
// semantics: pages with no discoverable last-modified timestamp, or one
// that fails to parse, are kept rather than dropped.
func (p *Producer) monthsBackPredicate(monthsBack int) func(Page) bool {
	return func(page Page) bool {
		if monthsBack <= 0 {
			return true
		}
		lastModified := page.lastModified()
		if lastModified == "" {
			p.log.Warn("could not determine last modified date", "page_id", page.ID)
			return true
		}

		normalized := lastModified
		if strings.HasSuffix(normalized, "Z") {
			normalized = normalized[:len(normalized)-1] + "+00:00"
		}
		modified, err := time.Parse(time.RFC3339, normalized)
		if err != nil {
			p.log.Warn("error parsing last modified date", "page_id", page.ID, "value", lastModified, "error", err)
			return true
		}

		cutoff := time.Now().In(modified.Location()).AddDate(0, 0, -monthsBack*30)
		if modified.Before(cutoff) {
			p.log.Info("skipping stale page", "title", page.Title, "last_modified", modified.Format("2006-01-02"), "months_back", monthsBack)
			return false
		}
		return true
	}
}

// Stream fetches every page window concurrently, flattens and filters
// them, optionally shuffles them (RandomSelection), and emits one Task
// per surviving page on the returned channel. The channel is closed once
// every page has been emitted or ctx is cancelled.
func (p *Producer) Stream(ctx context.Context) <-chan domain.Task {
	out := make(chan domain.Task)

	go func() {
		defer close(out)

		var offsets []int
		for offset := p.config.Skip; offset < p.config.Skip+p.config.MaxPages; offset += p.config.PageBatchSize {
			offsets = append(offsets, offset)
		}

		batches := fn.ParMap(offsets, p.config.Concurrency, func(offset int) []Page {
			limit := p.config.PageBatchSize
			if remaining := p.config.Skip + p.config.MaxPages - offset; remaining < limit {
				limit = remaining
			}
			if limit <= 0 {
				return nil
			}
			pages, err := p.client.listPages(ctx, p.config.Space, offset, limit, "version,history,lastModified")
			if err != nil {
				p.log.Error("fetch page batch failed", "offset", offset, "error", err)
				return nil
			}
			return pages
		})

		flat := fn.Flatten(batches)

		predicate := p.monthsBackPredicate(p.config.MonthsBack)
		var filtered []Page
		for _, page := range flat {
			if predicate(page) {
				filtered = append(filtered, page)
			}
		}

		if p.config.RandomSelection {
			rand.Shuffle(len(filtered), func(i, j int) { filtered[i], filtered[j] = filtered[j], filtered[i] })
		}

		for _, page := range filtered {
			idempotencyKey := page.lastModified()
			if idempotencyKey == "" {
				idempotencyKey = uuid.New().String()
			}
			task := domain.Task{
				Title:          page.Title,
				URL:            page.ID,
				Downloader:     "confluence",
				IdempotencyKey: idempotencyKey,
				Metadata:       map[string]any{"links": page.Links},
				Language:       p.genConfig.Language,
				Difficulty:     p.genConfig.Difficulty,
				Temperature:    p.genConfig.Temperature,
			}
			select {
			case out <- task:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}
