package generator

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/4thel00z/slurp-go/internal/domain"
	"github.com/4thel00z/slurp-go/internal/prompts"
)

// fakeChatServer answers chat completion requests by sniffing the
// requested JSON schema: a schema with an "answer" property gets an
// answer+chunks response, everything else gets a question response.
func fakeChatServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		raw, _ := json.Marshal(body["response_format"])
		var respContent string
		if strings.Contains(string(raw), `"answer"`) {
			payload, _ := json.Marshal(domain.AnswerSchema{Answer: "a grounded answer", Chunks: []string{content}})
			respContent = string(payload)
		} else {
			payload, _ := json.Marshal(domain.QuestionSchema{Question: "what does this document say?"})
			respContent = string(payload)
		}

		resp := map[string]any{
			"id":      "test",
			"object":  "chat.completion",
			"created": 0,
			"model":   "test-model",
			"choices": []map[string]any{
				{
					"index": 0,
					"message": map[string]any{
						"role":    "assistant",
						"content": respContent,
					},
					"finish_reason": "stop",
				},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
}

func testGenerator(t *testing.T, baseURL string) *Generator {
	t.Helper()
	catalog, err := prompts.Load()
	if err != nil {
		t.Fatalf("prompts.Load: %v", err)
	}
	cfg := Config{
		Enabled:                   true,
		Model:                     "test-model",
		BaseURL:                   baseURL,
		Concurrency:               2,
		MaxStructuralRetries:      2,
		ChunkSize:                 50,
		BatchSize:                 1,
		BatchQuestionsPerLanguage: 1,
		RequestTimeout:            5 * time.Second,
	}
	g, err := New(cfg, TokenConfig{OpenRouterAPIKey: "test-key"}, catalog)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if g == nil {
		t.Fatal("expected a non-nil generator")
	}
	return g
}

func TestNew_DisabledReturnsNil(t *testing.T) {
	g, err := New(Config{Enabled: false}, TokenConfig{}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if g != nil {
		t.Fatal("expected nil generator when disabled")
	}
}

func TestNew_EnabledWithoutAPIKeyFails(t *testing.T) {
	cfg := DefaultConfig()
	_, err := New(cfg, TokenConfig{}, nil)
	if err == nil {
		t.Fatal("expected an error for a missing API key")
	}
}

func TestGenerate_SingleDocument(t *testing.T) {
	content := "short document body about configuration management"
	server := fakeChatServer(t, content)
	defer server.Close()

	g := testGenerator(t, server.URL)
	result := &domain.TaskResult{
		Title:      "Runbook",
		Content:    content,
		Language:   domain.LanguageEN,
		Difficulty: domain.Easy,
	}

	gen, ok := g.Generate(t.Context(), result)
	if !ok {
		t.Fatal("expected a successful generation")
	}
	if len(gen.QuestionAnswers) != 1 {
		t.Fatalf("expected 1 QA pair for a short document, got %d", len(gen.QuestionAnswers))
	}
	if gen.QuestionAnswers[0].Answer == "" {
		t.Error("expected a non-empty answer")
	}
	if len(gen.References) != 1 || gen.References[0].Title != "Runbook" {
		t.Errorf("expected the source document as the sole reference, got %v", gen.References)
	}
}

func TestGenerate_EmptyContentSkips(t *testing.T) {
	g := testGenerator(t, "http://localhost:0")
	_, ok := g.Generate(t.Context(), &domain.TaskResult{Title: "Empty", Content: "  "})
	if ok {
		t.Fatal("expected empty content to be skipped")
	}
}

func TestGenerateFromBatch_GroupsByLanguage(t *testing.T) {
	content := "batch document content"
	server := fakeChatServer(t, content)
	defer server.Close()

	g := testGenerator(t, server.URL)
	results := []*domain.TaskResult{
		{Title: "A", Content: content, Language: domain.LanguageEN},
		{Title: "B", Content: content, Language: domain.LanguageEN},
		{Title: "C", Content: content, Language: domain.LanguageDE},
	}

	gens := g.GenerateFromBatch(t.Context(), results)
	if len(gens) != 2 {
		t.Fatalf("expected one generation per language, got %d", len(gens))
	}
	for _, gen := range gens {
		if gen.Language == domain.LanguageEN && len(gen.References) != 2 {
			t.Errorf("expected 2 references in the EN group, got %d", len(gen.References))
		}
		if gen.Language == domain.LanguageDE && len(gen.References) != 1 {
			t.Errorf("expected 1 reference in the DE group, got %d", len(gen.References))
		}
	}
}

func TestGroundedIn(t *testing.T) {
	available := []string{"the quick brown fox", "jumps over the lazy dog"}
	if !groundedIn([]string{"quick brown fox"}, available) {
		t.Error("expected a substring match to be grounded")
	}
	if groundedIn([]string{"nonexistent text"}, available) {
		t.Error("expected an unrelated chunk to be ungrounded")
	}
	if groundedIn(nil, available) {
		t.Error("expected zero claimed chunks to be ungrounded")
	}
}
