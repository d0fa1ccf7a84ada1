// Package prompts loads the question-generation prompt templates as
// embedded text resources, keyed by language, family (short-form vs.
// long/cross-document) and difficulty level — mirroring
// migrate/postgres.go's embed-and-apply pattern, repurposed for prompt
// text instead of SQL.
package prompts

import (
	"embed"
	"fmt"
	"path"
	"strings"

	"github.com/4thel00z/slurp-go/internal/domain"
)

//go:embed templates
var templatesFS embed.FS

// Family distinguishes the short single-document template set from the
// long cross-document one.
type Family string

const (
	FamilyShort Family = "short"
	FamilyLong  Family = "long"
)

// Catalogue loads and caches prompt templates by (language, family, level).
type Catalogue struct {
	cache map[string]string
}

func Load() (*Catalogue, error) {
	c := &Catalogue{cache: make(map[string]string)}
	languages := []domain.Language{domain.LanguageEN, domain.LanguageDE}
	for _, lang := range languages {
		for _, name := range []string{
			"easy", "medium", "hard", "mixed",
			"long_easy", "long_medium", "long_hard", "long_mixed",
			"answer_and_chunks", "cross_page",
		} {
			p := path.Join("templates", string(lang), name+".txt")
			data, err := templatesFS.ReadFile(p)
			if err != nil {
				return nil, fmt.Errorf("prompts: load %s: %w", p, err)
			}
			c.cache[string(lang)+"/"+name] = string(data)
		}
	}
	return c, nil
}

// difficultyTemplateName binds a Difficulty to its template name. This
// binding is type-level (keyed by the Difficulty enum, never by a
// hand-typed string) so a misspelled key cannot silently fall through to
// the wrong template the way it can in a loosely-typed dict lookup.
func difficultyTemplateName(d domain.Difficulty, family Family) (string, error) {
	short := map[domain.Difficulty]string{
		domain.Easy:   "easy",
		domain.Medium: "medium",
		domain.Hard:   "hard",
		domain.Mixed:  "mixed",
	}
	long := map[domain.Difficulty]string{
		domain.Easy:   "long_easy",
		domain.Medium: "long_medium",
		domain.Hard:   "long_hard",
		domain.Mixed:  "long_mixed",
	}
	table := short
	if family == FamilyLong {
		table = long
	}
	name, ok := table[d]
	if !ok {
		return "", fmt.Errorf("prompts: no template for difficulty %q", d)
	}
	return name, nil
}

// Question returns the question-generation template for a single
// document at the given difficulty.
func (c *Catalogue) Question(lang domain.Language, d domain.Difficulty, family Family) (string, error) {
	name, err := difficultyTemplateName(d, family)
	if err != nil {
		return "", err
	}
	return c.lookup(lang, name)
}

// AnswerAndChunks returns the answer-with-supporting-chunks template.
func (c *Catalogue) AnswerAndChunks(lang domain.Language) (string, error) {
	return c.lookup(lang, "answer_and_chunks")
}

// CrossPage returns the cross-document question template.
func (c *Catalogue) CrossPage(lang domain.Language) (string, error) {
	return c.lookup(lang, "cross_page")
}

func (c *Catalogue) lookup(lang domain.Language, name string) (string, error) {
	tmpl, ok := c.cache[string(lang)+"/"+name]
	if !ok {
		return "", fmt.Errorf("prompts: no %q template for language %q", name, lang)
	}
	return tmpl, nil
}

// Render substitutes {placeholder} slots in tmpl with the given values.
func Render(tmpl string, values map[string]string) string {
	pairs := make([]string, 0, len(values)*2)
	for k, v := range values {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}
