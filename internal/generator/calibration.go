package generator

import (
	"math/rand/v2"
	"sort"
	"strings"

	"github.com/4thel00z/slurp-go/internal/domain"
)

// wordCountThresholds and the levels they map to: a document strictly
// above the i-th threshold gets at least i+2 questions.
var wordCountThresholds = []int{500, 1000, 2000, 4000}

// NumQuestions estimates how many questions a document's length
// justifies, from 1 (short) to 5 (very long). It is the Go equivalent of
// bisect_left(thresholds, wordCount) + 1, so a count exactly at a
// threshold does not yet earn the extra question.
func NumQuestions(content string) int {
	wordCount := len(strings.Fields(content))
	idx := sort.Search(len(wordCountThresholds), func(i int) bool {
		return wordCountThresholds[i] >= wordCount
	})
	return idx + 1
}

// baseDifficulties is the fixed ordering mixed/balanced distributions
// draw from.
var baseDifficulties = []domain.Difficulty{domain.Easy, domain.Medium, domain.Hard}

// mixedWeights sums to 1: easy/medium/hard weighted 0.3/0.4/0.3.
var mixedWeights = []float64{0.3, 0.4, 0.3}

// MixedDistribution draws n difficulties independently, weighted
// 0.3/0.4/0.3 across easy/medium/hard.
func MixedDistribution(n int) []domain.Difficulty {
	out := make([]domain.Difficulty, n)
	for i := range out {
		out[i] = weightedChoice(baseDifficulties, mixedWeights)
	}
	return out
}

func weightedChoice(options []domain.Difficulty, weights []float64) domain.Difficulty {
	var total float64
	for _, w := range weights {
		total += w
	}
	r := rand.Float64() * total
	var cum float64
	for i, w := range weights {
		cum += w
		if r < cum {
			return options[i]
		}
	}
	return options[len(options)-1]
}

// BalancedDistribution spreads n questions across easy/medium/hard as
// evenly as possible: for n <= 3 it takes a prefix of the base ordering;
// for n > 3 it cycles full rounds, appends the remainder, then shuffles,
// so every level's count differs from any other's by at most one.
func BalancedDistribution(n int) []domain.Difficulty {
	levels := len(baseDifficulties)
	if n <= levels {
		return append([]domain.Difficulty(nil), baseDifficulties[:n]...)
	}

	remainder := n - levels
	reps := remainder / levels
	extra := remainder % levels

	dist := append([]domain.Difficulty(nil), baseDifficulties...)
	for i := 0; i < reps; i++ {
		dist = append(dist, baseDifficulties...)
	}
	dist = append(dist, baseDifficulties[:extra]...)

	rand.Shuffle(len(dist), func(i, j int) { dist[i], dist[j] = dist[j], dist[i] })
	return dist
}

// Chunks splits content into word-count blocks of size chunkSize.
func Chunks(content string, chunkSize int) []string {
	words := strings.Fields(content)
	if len(words) == 0 {
		return nil
	}
	var out []string
	for i := 0; i < len(words); i += chunkSize {
		end := i + chunkSize
		if end > len(words) {
			end = len(words)
		}
		out = append(out, strings.Join(words[i:end], " "))
	}
	return out
}

// DifficultyPlan returns the per-question difficulty sequence for a
// document, given its declared difficulty strategy.
func DifficultyPlan(d domain.Difficulty, n int) []domain.Difficulty {
	switch d {
	case domain.Easy, domain.Medium, domain.Hard:
		out := make([]domain.Difficulty, n)
		for i := range out {
			out[i] = d
		}
		return out
	case domain.Balanced:
		return BalancedDistribution(n)
	default:
		return MixedDistribution(n)
	}
}
