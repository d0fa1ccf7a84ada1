package usecase

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/4thel00z/slurp-go/internal/domain"
	"github.com/4thel00z/slurp-go/internal/generator"
	"github.com/4thel00z/slurp-go/internal/htmlnorm"
	"github.com/4thel00z/slurp-go/internal/prompts"
	"github.com/4thel00z/slurp-go/internal/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.New(store.Config{Database: filepath.Join(t.TempDir(), "slurp.db"), Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// extractDocumentContent pulls the rendered {content}/{combined_content}
// slot back out of a prompt built from answer_and_chunks.txt, so the mock
// server can answer with a chunk that actually grounds in it.
func extractDocumentContent(prompt string) string {
	const marker = "Document Content:\n"
	start := strings.Index(prompt, marker)
	if start == -1 {
		return prompt
	}
	start += len(marker)
	end := strings.Index(prompt[start:], "\n\nQuestion:")
	if end == -1 {
		return strings.TrimSpace(prompt[start:])
	}
	return strings.TrimSpace(prompt[start : start+end])
}

func fakeLLMServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		raw, _ := json.Marshal(body["response_format"])

		var content string
		if strings.Contains(string(raw), `"answer"`) {
			messages, _ := body["messages"].([]any)
			var prompt string
			if len(messages) > 0 {
				if m, ok := messages[0].(map[string]any); ok {
					prompt, _ = m["content"].(string)
				}
			}
			grounded := strings.Join(strings.Fields(extractDocumentContent(prompt)), " ")
			payload, _ := json.Marshal(domain.AnswerSchema{Answer: "answer text", Chunks: []string{grounded}})
			content = string(payload)
		} else {
			payload, _ := json.Marshal(domain.QuestionSchema{Question: "what happened?"})
			content = string(payload)
		}

		resp := map[string]any{
			"id": "t", "object": "chat.completion", "created": 0, "model": "test",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": content},
				"finish_reason": "stop",
			}},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
}

func testGenerator(t *testing.T, baseURL string) *generator.Generator {
	t.Helper()
	catalog, err := prompts.Load()
	if err != nil {
		t.Fatalf("prompts.Load: %v", err)
	}
	cfg := generator.Config{
		Enabled: true, Model: "test-model", BaseURL: baseURL,
		Concurrency: 2, MaxStructuralRetries: 1, ChunkSize: 50,
		BatchSize: 1, BatchQuestionsPerLanguage: 1, RequestTimeout: 5 * time.Second,
	}
	g, err := generator.New(cfg, generator.TokenConfig{OpenRouterAPIKey: "key"}, catalog)
	if err != nil {
		t.Fatalf("generator.New: %v", err)
	}
	return g
}

func TestWorker_GenerateIsNoOpWithoutGenerator(t *testing.T) {
	st := testStore(t)
	w := &Worker{store: st, generator: nil, log: testLogger()}

	w.generate(context.Background(), []*domain.TaskResult{{Title: "A", Content: "body"}}, 1)

	count, err := st.CountGenerations(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("expected no generation rows, got %d", count)
	}
}

func TestWorker_GenerateSingleResultPersists(t *testing.T) {
	server := fakeLLMServer(t)
	defer server.Close()

	st := testStore(t)
	w := &Worker{store: st, generator: testGenerator(t, server.URL), log: testLogger()}

	w.generate(context.Background(), []*domain.TaskResult{
		{Title: "Runbook", Content: "short document about deploys", Language: domain.LanguageEN, Difficulty: domain.Easy},
	}, 1)

	count, err := st.CountGenerations(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("expected 1 generation row, got %d", count)
	}
}

func TestWorker_GenerateBatchGroupsByLanguage(t *testing.T) {
	server := fakeLLMServer(t)
	defer server.Close()

	st := testStore(t)
	w := &Worker{store: st, generator: testGenerator(t, server.URL), log: testLogger()}

	results := []*domain.TaskResult{
		{Title: "A", Content: "doc one body", Language: domain.LanguageEN},
		{Title: "B", Content: "doc two body", Language: domain.LanguageEN},
	}
	w.generate(context.Background(), results, 2)

	count, err := st.CountGenerations(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("expected 1 generation row for a single-language batch, got %d", count)
	}
}

// TestWorker_GenerateOddRemainderStillUsesBatchPath guards the final
// flush of a batchSize>1 run where the accumulated remainder happens to
// be a single TaskResult: dispatch must still follow the configured
// batchSize, not the length of the slice it was handed, or the cross-page
// question generation that a real batch grounds itself in never runs.
func TestWorker_GenerateOddRemainderStillUsesBatchPath(t *testing.T) {
	var sawCrossPagePrompt bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		raw, _ := json.Marshal(body["response_format"])

		messages, _ := body["messages"].([]any)
		var prompt string
		if len(messages) > 0 {
			if m, ok := messages[0].(map[string]any); ok {
				prompt, _ = m["content"].(string)
			}
		}
		if strings.Contains(prompt, "Combined content from multiple documents") {
			sawCrossPagePrompt = true
		}

		var content string
		if strings.Contains(string(raw), `"answer"`) {
			grounded := strings.Join(strings.Fields(extractDocumentContent(prompt)), " ")
			payload, _ := json.Marshal(domain.AnswerSchema{Answer: "answer text", Chunks: []string{grounded}})
			content = string(payload)
		} else {
			payload, _ := json.Marshal(domain.QuestionSchema{Question: "what happened?"})
			content = string(payload)
		}

		resp := map[string]any{
			"id": "t", "object": "chat.completion", "created": 0, "model": "test",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": content},
				"finish_reason": "stop",
			}},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	st := testStore(t)
	w := &Worker{store: st, generator: testGenerator(t, server.URL), log: testLogger()}

	// A single leftover result, as Run's final flush would hand generate
	// when a batchSize>1 stream ends on an odd count.
	remainder := []*domain.TaskResult{
		{Title: "Last Page", Content: "trailing document body", Language: domain.LanguageEN},
	}
	w.generate(context.Background(), remainder, 2)

	if !sawCrossPagePrompt {
		t.Error("expected the odd-sized remainder to still use the cross-page batch prompt, not the single-document one")
	}

	count, err := st.CountGenerations(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("expected 1 generation row, got %d", count)
	}
}

func TestWorker_DownloadChainNormalizesThenPersists(t *testing.T) {
	st := testStore(t)
	pool := htmlnorm.NewPool(2)
	w := &Worker{}
	w.normalize = pool
	w.store = st
	w.downloadChain = buildDownloadChain(pool, st)

	result := &domain.TaskResult{Title: "Page", URL: "u", Content: "<ul><li>one</li><li>two</li></ul>"}
	out := w.downloadChain(context.Background(), result)
	final, err := out.Unwrap()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if final.Content == result.Content {
		t.Error("expected normalize to rewrite HTML content to plain text")
	}

	count, err := st.CountTaskResults(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("expected 1 persisted row, got %d", count)
	}
}
