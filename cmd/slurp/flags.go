package main

import (
	"flag"

	"github.com/4thel00z/slurp-go/internal/confluence"
	"github.com/4thel00z/slurp-go/internal/generator"
	"github.com/4thel00z/slurp-go/internal/queue"
	"github.com/4thel00z/slurp-go/internal/store"
)

// addConfluenceFlags registers the confluence-* flags on fs, seeded from
// defaults so an unset flag falls through to whatever the environment
// already provided.
func addConfluenceFlags(fs *flag.FlagSet, cfg *confluence.Config) {
	fs.StringVar(&cfg.Space, "confluence-space", cfg.Space, "Confluence space key to operate on")
	fs.StringVar(&cfg.BaseURL, "confluence-base-url", cfg.BaseURL, "Confluence base URL")
	fs.StringVar(&cfg.Username, "confluence-username", cfg.Username, "Confluence username for basic auth")
	fs.BoolVar(&cfg.Cloud, "confluence-cloud", cfg.Cloud, "use the Confluence Cloud API")
	fs.IntVar(&cfg.MaxPages, "confluence-max-pages", cfg.MaxPages, "maximum number of pages to fetch")
	fs.IntVar(&cfg.MonthsBack, "confluence-months-back", cfg.MonthsBack, "how many months back to look for updates (0 = no filter)")
	fs.BoolVar(&cfg.RandomSelection, "confluence-random-selection", cfg.RandomSelection, "shuffle page order before emitting tasks")
	fs.IntVar(&cfg.Concurrency, "confluence-concurrency", cfg.Concurrency, "concurrent page-window fetches")
	fs.IntVar(&cfg.PageBatchSize, "confluence-page-batch-size", cfg.PageBatchSize, "page size for list endpoints")
	fs.IntVar(&cfg.Skip, "confluence-skip", cfg.Skip, "number of pages to skip")
	fs.DurationVar(&cfg.RequestTimeout, "confluence-timeout", cfg.RequestTimeout, "HTTP request timeout")
}

// addKafkaFlags registers the kafka-* flags on fs.
func addKafkaFlags(fs *flag.FlagSet, cfg *queue.Config) {
	fs.StringVar(&cfg.BootstrapServers, "kafka-bootstrap-servers", cfg.BootstrapServers, "Kafka bootstrap servers")
	fs.StringVar(&cfg.Topic, "kafka-topic", cfg.Topic, "Kafka topic to produce/consume")
	fs.StringVar(&cfg.ClientID, "kafka-client-id", cfg.ClientID, "Kafka client ID")
}

// addSQLiteFlags registers the sqlite-* flags on fs.
func addSQLiteFlags(fs *flag.FlagSet, cfg *store.Config) {
	fs.StringVar(&cfg.Database, "sqlite-database", cfg.Database, "path to the SQLite database file")
	fs.DurationVar(&cfg.Timeout, "sqlite-timeout", cfg.Timeout, "SQLite busy timeout")
}

// addGeneratorFlags registers the generator-* flags on fs.
func addGeneratorFlags(fs *flag.FlagSet, cfg *generator.Config) {
	fs.StringVar(&cfg.Model, "generator-model", cfg.Model, "LLM model to use for QA generation")
	fs.StringVar(&cfg.BaseURL, "generator-base-url", cfg.BaseURL, "base URL for the LLM API")
	fs.IntVar(&cfg.Concurrency, "generator-concurrency", cfg.Concurrency, "concurrent LLM requests")
	fs.IntVar(&cfg.MaxStructuralRetries, "generator-max-structural-retries", cfg.MaxStructuralRetries, "maximum attempts per answer call when the response is malformed or ungrounded")
	fs.IntVar(&cfg.ChunkSize, "generator-chunk-size", cfg.ChunkSize, "word count per answer-grounding chunk")
	fs.IntVar(&cfg.BatchSize, "generator-batch-size", cfg.BatchSize, "documents processed together (1=single, >1=cross-document)")
	fs.IntVar(&cfg.BatchQuestionsPerLanguage, "generator-batch-questions-per-language", cfg.BatchQuestionsPerLanguage, "cross-document questions generated per language group")
	fs.BoolVar(&cfg.Enabled, "generator-enabled", cfg.Enabled, "enable question/answer generation")
	fs.DurationVar(&cfg.RequestTimeout, "generator-timeout", cfg.RequestTimeout, "LLM request timeout")
}

// addGeneratorDefaultFlags registers the per-task defaults the scraper
// stamps onto every emitted Task.
func addGeneratorDefaultFlags(fs *flag.FlagSet, lang *string, difficulty *string, temperature *float64) {
	fs.StringVar(lang, "generator-language", *lang, "language tag for generated questions (de|en)")
	fs.StringVar(difficulty, "generator-difficulty-ratio", *difficulty, "question difficulty distribution (easy|medium|hard|mixed|balanced)")
	fs.Float64Var(temperature, "generator-temperature", *temperature, "sampling temperature for generation")
}
