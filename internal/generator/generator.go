// Package generator turns downloaded pages into question/answer pairs
// using an OpenAI-compatible chat completion API, calibrating question
// count and difficulty to each document's length.
package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/4thel00z/slurp-go/internal/domain"
	"github.com/4thel00z/slurp-go/internal/fn"
	"github.com/4thel00z/slurp-go/internal/prompts"
	"github.com/4thel00z/slurp-go/internal/resilience"
)

// Generator produces Generations from TaskResults via a chat-completion
// model, guarded by a circuit breaker and rate limiter shared across
// every call it makes.
type Generator struct {
	client  *openai.Client
	cfg     Config
	catalog *prompts.Catalogue
	breaker *resilience.Breaker
	limiter *resilience.Limiter
}

// New builds a Generator. It returns (nil, nil) when the generator is
// disabled, so callers can skip wiring it without a special case.
func New(cfg Config, token TokenConfig, catalog *prompts.Catalogue) (*Generator, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	if err := cfg.Validate(token); err != nil {
		return nil, err
	}

	clientCfg := openai.DefaultConfig(token.OpenRouterAPIKey)
	clientCfg.BaseURL = cfg.BaseURL
	clientCfg.HTTPClient = &http.Client{Timeout: cfg.RequestTimeout}

	return &Generator{
		client:  openai.NewClientWithConfig(clientCfg),
		cfg:     cfg,
		catalog: catalog,
		breaker: resilience.NewBreaker(resilience.DefaultBreakerOpts),
		limiter: resilience.NewLimiter(resilience.LimiterOpts{Rate: 2, Burst: cfg.Concurrency}),
	}, nil
}

// Generate produces questions and grounded answers for a single
// document, calibrating question count to its length and difficulty
// plan to its declared strategy. It returns false when the document
// carries no usable content.
func (g *Generator) Generate(ctx context.Context, result *domain.TaskResult) (*domain.Generation, bool) {
	if strings.TrimSpace(result.Content) == "" {
		return nil, false
	}

	n := NumQuestions(result.Content)
	levels := DifficultyPlan(result.Difficulty, n)

	questions := fn.ParMapResult(levels, g.cfg.Concurrency, func(level domain.Difficulty) fn.Result[string] {
		return g.askQuestion(ctx, result.Language, level, result.Title, result.Content)
	})

	qas := make([]domain.QA, 0, n)
	for _, qr := range questions {
		question, err := qr.Unwrap()
		if err != nil || strings.TrimSpace(question) == "" {
			continue
		}
		answer, chunks, ok := g.answer(ctx, result.Language, question, result.Content, g.cfg.ChunkSize)
		if !ok {
			continue
		}
		qas = append(qas, domain.QA{Question: question, Answer: answer, Chunks: chunks})
	}
	if len(qas) == 0 {
		return nil, false
	}

	return &domain.Generation{
		QuestionAnswers: qas,
		References:      []domain.TaskResult{*result},
		Language:        result.Language,
	}, true
}

// GenerateFromBatch groups results by language and produces one
// cross-document Generation per group, grounded across every document
// in it.
func (g *Generator) GenerateFromBatch(ctx context.Context, results []*domain.TaskResult) []*domain.Generation {
	groups := fn.GroupBy(results, func(r *domain.TaskResult) domain.Language { return r.Language })

	out := make([]*domain.Generation, 0, len(groups))
	for lang, group := range groups {
		combined := combinedContent(group)
		n := g.cfg.BatchQuestionsPerLanguage
		if n <= 0 {
			n = 1
		}

		questions := fn.ParMapResult(make([]int, n), g.cfg.Concurrency, func(int) fn.Result[string] {
			return g.askCrossPageQuestion(ctx, lang, combined)
		})

		refs := make([]domain.TaskResult, 0, len(group))
		for _, r := range group {
			refs = append(refs, *r)
		}

		qas := make([]domain.QA, 0, n)
		for _, qr := range questions {
			question, err := qr.Unwrap()
			if err != nil || strings.TrimSpace(question) == "" {
				continue
			}
			answer, chunks, ok := g.answer(ctx, lang, question, combined, g.cfg.ChunkSize)
			if !ok {
				continue
			}
			qas = append(qas, domain.QA{Question: question, Answer: answer, Chunks: chunks})
		}
		if len(qas) == 0 {
			continue
		}

		out = append(out, &domain.Generation{
			QuestionAnswers: qas,
			References:      refs,
			Language:        lang,
		})
	}
	return out
}

func combinedContent(group []*domain.TaskResult) string {
	lines := make([]string, 0, len(group))
	for _, r := range group {
		lines = append(lines, fmt.Sprintf("Document %s: %s", r.Title, r.Content))
	}
	return strings.Join(lines, "\n")
}

func (g *Generator) askQuestion(ctx context.Context, lang domain.Language, level domain.Difficulty, title, content string) fn.Result[string] {
	tmpl, err := g.catalog.Question(lang, level, prompts.FamilyShort)
	if err != nil {
		return fn.Err[string](err)
	}
	prompt := prompts.Render(tmpl, map[string]string{"title": title, "content": content})
	return structuredCall(ctx, g, prompt, questionSchema, func(data []byte) (string, error) {
		var q domain.QuestionSchema
		if err := json.Unmarshal(data, &q); err != nil {
			return "", err
		}
		return q.Question, nil
	})
}

func (g *Generator) askCrossPageQuestion(ctx context.Context, lang domain.Language, combinedContent string) fn.Result[string] {
	tmpl, err := g.catalog.CrossPage(lang)
	if err != nil {
		return fn.Err[string](err)
	}
	prompt := prompts.Render(tmpl, map[string]string{"combined_content": combinedContent})
	return structuredCall(ctx, g, prompt, questionSchema, func(data []byte) (string, error) {
		var q domain.QuestionSchema
		if err := json.Unmarshal(data, &q); err != nil {
			return "", err
		}
		return q.Question, nil
	})
}

// answer resolves a question into a grounded answer plus the content
// chunks that support it, making up to MaxStructuralRetries attempts in
// total: a failed call, a malformed response, or chunks that can't be
// matched back into the source content each trigger another attempt.
func (g *Generator) answer(ctx context.Context, lang domain.Language, question, content string, chunkSize int) (string, []string, bool) {
	tmpl, err := g.catalog.AnswerAndChunks(lang)
	if err != nil {
		return "", nil, false
	}
	prompt := prompts.Render(tmpl, map[string]string{"question": question, "content": content})

	available := Chunks(content, chunkSize)

	result := fn.Retry(ctx, fn.RetryOpts{
		MaxAttempts: g.cfg.MaxStructuralRetries,
		InitialWait: time.Second,
		MaxWait:     10 * time.Second,
		Jitter:      true,
	}, func(ctx context.Context) fn.Result[domain.AnswerSchema] {
		r := structuredCall(ctx, g, prompt, answerSchema, func(data []byte) (domain.AnswerSchema, error) {
			var a domain.AnswerSchema
			if err := json.Unmarshal(data, &a); err != nil {
				return domain.AnswerSchema{}, err
			}
			return a, nil
		})
		a, err := r.Unwrap()
		if err != nil {
			return fn.Err[domain.AnswerSchema](err)
		}
		if !groundedIn(a.Chunks, available) {
			return fn.Err[domain.AnswerSchema](domain.ErrUngroundedAnswer)
		}
		return fn.Ok(a)
	})

	a, err := result.Unwrap()
	if err != nil {
		return "", nil, false
	}
	return a.Answer, a.Chunks, true
}

// groundedIn reports whether every claimed chunk either is a substring of
// at least one of the document's real chunks or contains one of them
// whole.
func groundedIn(claimed, available []string) bool {
	if len(claimed) == 0 {
		return false
	}
	for _, c := range claimed {
		found := false
		for _, a := range available {
			if strings.Contains(a, c) || strings.Contains(c, a) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

var questionSchema = jsonschema.Definition{
	Type: jsonschema.Object,
	Properties: map[string]jsonschema.Definition{
		"question": {Type: jsonschema.String},
	},
	Required: []string{"question"},
}

var answerSchema = jsonschema.Definition{
	Type: jsonschema.Object,
	Properties: map[string]jsonschema.Definition{
		"answer": {Type: jsonschema.String},
		"chunks": {Type: jsonschema.Array, Items: &jsonschema.Definition{Type: jsonschema.String}},
	},
	Required: []string{"answer", "chunks"},
}

// structuredCall sends prompt as the sole user message and asks the
// model to conform to schema, decoding the response with decode. Every
// call goes through the shared rate limiter and circuit breaker.
func structuredCall[T any](ctx context.Context, g *Generator, prompt string, schema jsonschema.Definition, decode func([]byte) (T, error)) fn.Result[T] {
	return resilience.CallResult(g.breaker, ctx, func(ctx context.Context) fn.Result[T] {
		if err := g.limiter.Wait(ctx); err != nil {
			return fn.Err[T](err)
		}

		resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: g.cfg.Model,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleUser, Content: prompt},
			},
			ResponseFormat: &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
				JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
					Name:   "structured_response",
					Schema: schema,
					Strict: true,
				},
			},
		})
		if err != nil {
			return fn.Err[T](err)
		}
		if len(resp.Choices) == 0 {
			return fn.Err[T](fmt.Errorf("generator: empty response from model"))
		}

		v, err := decode([]byte(resp.Choices[0].Message.Content))
		if err != nil {
			return fn.Err[T](domain.ErrStructuralMismatch)
		}
		return fn.Ok(v)
	})
}
