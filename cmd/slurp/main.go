// Command slurp runs the Confluence scraper and QA-generation worker
// that together build a RAG evaluation corpus: scraper discovers pages
// and submits them to a durable queue, worker consumes that queue,
// downloads and normalizes each page, and optionally turns it into
// question/answer pairs.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/4thel00z/slurp-go/internal/confluence"
	"github.com/4thel00z/slurp-go/internal/domain"
	"github.com/4thel00z/slurp-go/internal/generator"
	"github.com/4thel00z/slurp-go/internal/htmlnorm"
	"github.com/4thel00z/slurp-go/internal/prompts"
	"github.com/4thel00z/slurp-go/internal/queue"
	"github.com/4thel00z/slurp-go/internal/store"
	"github.com/4thel00z/slurp-go/internal/telemetry"
	"github.com/4thel00z/slurp-go/internal/usecase"
)

func main() {
	log := slog.Default()

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: slurp <scraper|worker> [flags]")
		os.Exit(64) // EX_USAGE
	}
	command := os.Args[1]

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdown, err := telemetry.Setup(ctx, "slurp-"+command)
	if err != nil {
		log.Warn("telemetry setup failed, continuing without tracing", "error", err)
		shutdown = func(context.Context) error { return nil }
	}
	defer shutdown(context.Background())

	var runErr error
	switch command {
	case "scraper":
		runErr = runScraper(ctx, log, os.Args[2:])
	case "worker":
		runErr = runWorker(ctx, log, os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", command)
		os.Exit(64)
	}
	if runErr != nil {
		log.Error("command failed", "command", command, "error", runErr)
		os.Exit(1)
	}
}

func runScraper(ctx context.Context, log *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("scraper", flag.ExitOnError)
	workers := fs.Int("workers", 1, "number of scraper processes to run")

	confluenceCfg := confluence.DefaultConfig().FromEnv()
	kafkaCfg := queue.Config{ClientID: "slurp", Topic: "tasks", BootstrapServers: "localhost:19092"}.FromEnv()
	lang, difficulty, temperature := "de", "mixed", 0.7

	addConfluenceFlags(fs, &confluenceCfg)
	addKafkaFlags(fs, &kafkaCfg)
	addGeneratorDefaultFlags(fs, &lang, &difficulty, &temperature)
	fs.Parse(args)

	if *workers > 1 {
		return fanOutSelf(ctx, *workers, append([]string{"scraper"}, args...))
	}

	if err := confluenceCfg.Validate(); err != nil {
		return err
	}
	if err := kafkaCfg.Validate(); err != nil {
		return err
	}

	submitter, err := queue.NewSubmitter(kafkaCfg)
	if err != nil {
		return err
	}

	producer := confluence.NewProducer(confluenceCfg, confluence.GeneratorDefaults{
		Language:    domain.Language(lang),
		Difficulty:  domain.Difficulty(difficulty),
		Temperature: temperature,
	}, log)

	n, err := usecase.NewScraper(producer, submitter, log).Run(ctx)
	log.Info("scraper finished", "submitted", n)
	return err
}

func runWorker(ctx context.Context, log *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("worker", flag.ExitOnError)
	workers := fs.Int("workers", 1, "number of worker processes to run")

	confluenceCfg := confluence.DefaultConfig().FromEnv()
	kafkaCfg := queue.Config{ClientID: "slurp", Topic: "tasks", BootstrapServers: "localhost:19092"}.FromEnv()
	sqliteCfg := store.DefaultConfig().FromEnv()
	generatorCfg := generator.DefaultConfig().FromEnv()
	tokenCfg := generator.TokenConfig{}.FromEnv()

	addConfluenceFlags(fs, &confluenceCfg)
	addKafkaFlags(fs, &kafkaCfg)
	addSQLiteFlags(fs, &sqliteCfg)
	addGeneratorFlags(fs, &generatorCfg)
	fs.Parse(args)

	if *workers > 1 {
		return fanOutSelf(ctx, *workers, append([]string{"worker"}, args...))
	}

	if err := confluenceCfg.Validate(); err != nil {
		return err
	}
	if err := kafkaCfg.Validate(); err != nil {
		return err
	}
	if err := sqliteCfg.Validate(); err != nil {
		return err
	}
	if err := generatorCfg.Validate(tokenCfg); err != nil {
		return err
	}

	consumer, err := queue.NewConsumer(kafkaCfg)
	if err != nil {
		return err
	}
	st, err := store.New(sqliteCfg)
	if err != nil {
		return err
	}
	defer st.Close()

	catalog, err := prompts.Load()
	if err != nil {
		return err
	}
	gen, err := generator.New(generatorCfg, tokenCfg, catalog)
	if err != nil {
		return err
	}
	if gen == nil {
		log.Warn("no generator configured, skipping generation step")
	}

	downloader := confluence.NewDownloader(confluenceCfg, log)
	pool := htmlnorm.NewPool(0)

	return usecase.NewWorker(consumer, downloader, pool, st, gen, generatorCfg.BatchSize, log).Run(ctx)
}
