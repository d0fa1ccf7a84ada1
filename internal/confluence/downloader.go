package confluence

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/4thel00z/slurp-go/internal/domain"
	"github.com/4thel00z/slurp-go/internal/hash"
)

// Downloader fetches the body of a single Confluence page addressed by a
// Task.
type Downloader struct {
	client *client
	log    *slog.Logger
}

func NewDownloader(cfg Config, log *slog.Logger) *Downloader {
	return &Downloader{client: newClient(cfg), log: log}
}

// Fetch returns (result, true) when the task produced something worth
// persisting — including a failed HTTP response, which is kept so the
// failure itself is recorded — and (nil, false) when the task should be
// silently dropped: it wasn't addressed to this downloader, the
// transport call itself failed, or the page body was empty.
func (d *Downloader) Fetch(ctx context.Context, task domain.Task) (*domain.TaskResult, bool) {
	if task.Downloader != "confluence" {
		d.log.Warn("task not addressed to confluence downloader", "downloader", task.Downloader)
		return nil, false
	}

	resp, err := d.client.getPage(ctx, task.URL, "body.storage,body.view")
	if err != nil {
		d.log.Warn("confluence fetch failed", "url", task.URL, "error", err)
		return nil, false
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		d.log.Warn("confluence read body failed", "url", task.URL, "error", readErr)
		return nil, false
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &domain.TaskResult{
			Title:       task.Title,
			URL:         task.URL,
			StatusCode:  resp.StatusCode,
			Content:     string(body),
			Hash:        hash.Sum(body),
			Headers:     flattenHeaders(resp.Header),
			Temperature: task.Temperature,
			Difficulty:  task.Difficulty,
			Language:    task.Language,
		}, true
	}

	var page Page
	if err := decodeJSON(body, &page); err != nil || page.ID == "" {
		d.log.Warn("confluence failed to decode page", "url", task.URL, "error", err)
		return nil, false
	}

	bodyHTML := ""
	if page.Body != nil && page.Body.View != nil {
		bodyHTML = page.Body.View.Value
	}
	if bodyHTML == "" {
		return nil, false
	}

	return &domain.TaskResult{
		Title:       task.Title,
		URL:         task.URL,
		StatusCode:  resp.StatusCode,
		Content:     bodyHTML,
		Hash:        hash.Sum([]byte(bodyHTML)),
		Headers:     flattenHeaders(resp.Header),
		Temperature: task.Temperature,
		Difficulty:  task.Difficulty,
		Language:    task.Language,
	}, true
}

var errEmptyBody = errors.New("empty response body")

func decodeJSON(body []byte, v any) error {
	if len(body) == 0 {
		return errEmptyBody
	}
	return json.Unmarshal(body, v)
}

func flattenHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k := range h {
		out[k] = h.Get(k)
	}
	return out
}
