package analytics

import (
	"context"
	"math"
	"regexp"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"hurdl/internal/model"
)

// TopWordsLimit is the number of common words reported
const TopWordsLimit = 10

// Scorer rates the polarity of a text in [-1, 1]
type Scorer interface {
	Polarity(ctx context.Context, text string) (float64, error)
}

// ScorerFunc adapts a function to Scorer
type ScorerFunc func(ctx context.Context, text string) (float64, error)

// Polarity calls f
func (f ScorerFunc) Polarity(ctx context.Context, text string) (float64, error) {
	return f(ctx, text)
}

type memoResult struct {
	polarity float64
	err      error
}

type memoScorer struct {
	scorer Scorer
	mu     sync.Mutex
	seen   map[string]memoResult
}

// Memoize wraps scorer so that each distinct text is scored once, failures
// included. Use one per snapshot so repeated analyses of the same answers agree.
func Memoize(scorer Scorer) Scorer {
	return &memoScorer{scorer: scorer, seen: make(map[string]memoResult)}
}

func (m *memoScorer) Polarity(ctx context.Context, text string) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.seen[text]; ok {
		return r.polarity, r.err
	}
	p, err := m.scorer.Polarity(ctx, text)
	m.seen[text] = memoResult{polarity: p, err: err}
	return p, err
}

// StopWords are removed before counting words
var StopWords = map[string]struct{}{
	"the": {}, "and": {}, "i": {}, "to": {}, "a": {}, "is": {}, "in": {}, "that": {},
	"it": {}, "of": {}, "for": {}, "this": {}, "with": {}, "on": {}, "be": {}, "are": {},
}

// Topic is a fixed theme detected by keyword
type Topic struct {
	Name     string
	Keywords []string
}

// Topics are counted in every summary, in this order
var Topics = []Topic{
	{Name: "workload", Keywords: []string{"work", "workload", "busy", "overwork", "stress", "deadline", "time"}},
	{Name: "team", Keywords: []string{"team", "colleague", "coworker", "collaboration", "together"}},
	{Name: "management", Keywords: []string{"manager", "management", "leadership", "supervisor", "boss"}},
	{Name: "growth", Keywords: []string{"growth", "learning", "development", "progress", "career"}},
}

var wordPattern = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// PolarityToScale maps a polarity in [-1, 1] onto the 1-5 answer scale
func PolarityToScale(p float64) float64 {
	return (p+1)*2 + 1
}

// AnalyzeSentiment scores the free text answers and extracts common words and
// topic mentions. An answer whose scoring fails is left out of the averages but
// its words still count.
func AnalyzeSentiment(ctx context.Context, ds Dataset, scorer Scorer) model.SentimentSummary {
	summary := model.SentimentSummary{
		Questions:   make(map[string]float64),
		CommonWords: []model.WordCount{},
		Topics:      emptyTopics(),
	}

	var texts []string
	var overall mean
	for _, q := range ds.Schema.Available(TextQuestions) {
		var scores mean
		for _, r := range ds.Responses {
			text, ok := r.Text(q)
			if !ok || strings.TrimSpace(text) == "" {
				continue
			}
			texts = append(texts, text)

			p, err := scorer.Polarity(ctx, text)
			if err != nil || math.IsNaN(p) {
				continue
			}
			scores.add(PolarityToScale(clamp(p, -1, 1)))
		}
		summary.Questions[q] = scores.value()
		if scores.ok() {
			overall.add(scores.value())
		}
	}
	summary.Overall = overall.value()

	if len(texts) == 0 {
		return summary
	}
	words := Tokenize(strings.Join(texts, " "))
	summary.CommonWords = TopWords(words, TopWordsLimit)
	summary.Topics = CountTopics(words)
	return summary
}

// Tokenize lower-cases text and returns its words, dropping stop words and
// words of two characters or fewer.
func Tokenize(text string) []string {
	raw := wordPattern.FindAllString(strings.ToLower(text), -1)
	words := make([]string, 0, len(raw))
	for _, w := range raw {
		if utf8.RuneCountInString(w) <= 2 {
			continue
		}
		if _, stop := StopWords[w]; stop {
			continue
		}
		words = append(words, w)
	}
	return words
}

// TopWords returns the n most frequent words. Ties keep first-occurrence order.
func TopWords(words []string, n int) []model.WordCount {
	index := make(map[string]int)
	counts := []model.WordCount{}
	for _, w := range words {
		if i, ok := index[w]; ok {
			counts[i].Count++
			continue
		}
		index[w] = len(counts)
		counts = append(counts, model.WordCount{Word: w, Count: 1})
	}
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	if len(counts) > n {
		counts = counts[:n]
	}
	return counts
}

// CountTopics counts keyword mentions per topic. A word can count toward
// several topics.
func CountTopics(words []string) map[string]int {
	topics := emptyTopics()
	for _, t := range Topics {
		for _, w := range words {
			for _, k := range t.Keywords {
				if w == k {
					topics[t.Name]++
					break
				}
			}
		}
	}
	return topics
}

func emptyTopics() map[string]int {
	topics := make(map[string]int, len(Topics))
	for _, t := range Topics {
		topics[t.Name] = 0
	}
	return topics
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
