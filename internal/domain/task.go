// Package domain holds the value types shared across the scraper and
// worker pipelines: Task, TaskResult, Generation and their supporting
// enums.
package domain

// Difficulty selects how a generator should calibrate question hardness.
type Difficulty string

const (
	Easy     Difficulty = "EASY"
	Medium   Difficulty = "MEDIUM"
	Hard     Difficulty = "HARD"
	Mixed    Difficulty = "MIXED"
	Balanced Difficulty = "BALANCED"
)

// Language is a BCP-47-ish two-letter tag; only "de" and "en" carry
// prompt templates today.
type Language string

const (
	LanguageDE Language = "de"
	LanguageEN Language = "en"
)

// Task describes one unit of work: fetch a page and, optionally, generate
// questions from it. Once submitted to the queue a Task is never mutated
// in place — every stage that changes it produces a new value.
type Task struct {
	Title          string         `json:"title"`
	URL            string         `json:"url"`
	Downloader     string         `json:"downloader"`
	IdempotencyKey string         `json:"idempotency_key"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	Language       Language       `json:"language"`
	Difficulty     Difficulty     `json:"difficulty"`
	Temperature    float64        `json:"temperature"`
}

// Validate rejects a Task missing the fields required to route and
// dedupe it. It never validates optional fields like Metadata.
func (t Task) Validate() error {
	if t.URL == "" {
		return NewValidationError("url", t.URL, ErrMissingField)
	}
	if t.Downloader == "" {
		return NewValidationError("downloader", t.Downloader, ErrMissingField)
	}
	if t.IdempotencyKey == "" {
		return NewValidationError("idempotency_key", t.IdempotencyKey, ErrMissingField)
	}
	return nil
}

// TaskResult is the product of downloading a Task: the raw response plus
// whatever the Task carried that downstream stages still need
// (language, difficulty, temperature propagate unchanged).
type TaskResult struct {
	Title       string            `json:"title"`
	URL         string            `json:"url"`
	StatusCode  int               `json:"status_code"`
	Headers     map[string]string `json:"headers,omitempty"`
	Content     string            `json:"content"`
	Hash        string            `json:"hash"`
	Language    Language          `json:"language"`
	Difficulty  Difficulty        `json:"difficulty"`
	Temperature float64           `json:"temperature"`
}

// QA is one question, its grounded answer, and the content chunks that
// support the answer. An empty Chunks slice means the answer could not
// be grounded and the pair should not be persisted.
type QA struct {
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Chunks   []string `json:"chunks"`
}

// Generation is the output of running a generator over one or more
// TaskResults: a batch of QAs plus the documents they were grounded in.
type Generation struct {
	QuestionAnswers []QA         `json:"question_answers"`
	References      []TaskResult `json:"references"`
	Language        Language     `json:"language"`
}

// QuestionSchema and AnswerSchema are the structured-output shapes the
// generator asks the LLM provider to conform to.
type QuestionSchema struct {
	Question string `json:"question"`
}

type AnswerSchema struct {
	Answer string   `json:"answer"`
	Chunks []string `json:"chunks"`
}
