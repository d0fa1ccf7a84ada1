package main

import (
	"flag"
	"testing"

	"github.com/4thel00z/slurp-go/internal/confluence"
	"github.com/4thel00z/slurp-go/internal/generator"
	"github.com/4thel00z/slurp-go/internal/queue"
	"github.com/4thel00z/slurp-go/internal/store"
)

func TestAddConfluenceFlags_OverridesDefault(t *testing.T) {
	cfg := confluence.DefaultConfig()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	addConfluenceFlags(fs, &cfg)

	if err := fs.Parse([]string{"-confluence-space=ENG", "-confluence-max-pages=7"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Space != "ENG" {
		t.Errorf("Space = %q, want ENG", cfg.Space)
	}
	if cfg.MaxPages != 7 {
		t.Errorf("MaxPages = %d, want 7", cfg.MaxPages)
	}
	// Untouched fields keep the seeded default.
	if cfg.PageBatchSize != confluence.DefaultConfig().PageBatchSize {
		t.Errorf("PageBatchSize changed unexpectedly: %d", cfg.PageBatchSize)
	}
}

func TestAddKafkaFlags_OverridesDefault(t *testing.T) {
	cfg := queue.Config{ClientID: "slurp", Topic: "tasks", BootstrapServers: "localhost:19092"}
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	addKafkaFlags(fs, &cfg)

	if err := fs.Parse([]string{"-kafka-topic=corpus"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Topic != "corpus" {
		t.Errorf("Topic = %q, want corpus", cfg.Topic)
	}
	if cfg.BootstrapServers != "localhost:19092" {
		t.Errorf("BootstrapServers changed unexpectedly: %q", cfg.BootstrapServers)
	}
}

func TestAddSQLiteFlags_OverridesDefault(t *testing.T) {
	cfg := store.DefaultConfig()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	addSQLiteFlags(fs, &cfg)

	if err := fs.Parse([]string{"-sqlite-database=/tmp/corpus.db"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Database != "/tmp/corpus.db" {
		t.Errorf("Database = %q, want /tmp/corpus.db", cfg.Database)
	}
}

func TestAddGeneratorFlags_OverridesDefault(t *testing.T) {
	cfg := generator.DefaultConfig()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	addGeneratorFlags(fs, &cfg)

	if err := fs.Parse([]string{"-generator-enabled=false", "-generator-batch-size=4"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Enabled {
		t.Error("Enabled = true, want false")
	}
	if cfg.BatchSize != 4 {
		t.Errorf("BatchSize = %d, want 4", cfg.BatchSize)
	}
	if cfg.Model != generator.DefaultConfig().Model {
		t.Errorf("Model changed unexpectedly: %q", cfg.Model)
	}
}

func TestAddGeneratorDefaultFlags_OverridesDefault(t *testing.T) {
	lang, difficulty, temperature := "de", "mixed", 0.7
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	addGeneratorDefaultFlags(fs, &lang, &difficulty, &temperature)

	if err := fs.Parse([]string{"-generator-language=en", "-generator-temperature=0.2"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if lang != "en" {
		t.Errorf("lang = %q, want en", lang)
	}
	if temperature != 0.2 {
		t.Errorf("temperature = %v, want 0.2", temperature)
	}
	if difficulty != "mixed" {
		t.Errorf("difficulty changed unexpectedly: %q", difficulty)
	}
}
