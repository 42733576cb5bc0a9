// Package sentiment provides an offline polarity scorer for free text answers,
// backed by the VADER lexicon.
package sentiment

import (
	"context"
	"sync"

	"github.com/jonreiter/govader"
)

// The analyzer loads its lexicon on construction and is read-only afterwards.
var defaultAnalyzer = sync.OnceValue(govader.NewSentimentIntensityAnalyzer)

// Lexicon scores text with the VADER compound score
type Lexicon struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewLexicon creates a lexicon scorer
func NewLexicon() *Lexicon {
	return &Lexicon{analyzer: defaultAnalyzer()}
}

// Polarity returns the compound polarity of text, 0 when it carries no
// sentiment. It never fails.
func (l *Lexicon) Polarity(_ context.Context, text string) (float64, error) {
	return l.analyzer.PolarityScores(text).Compound, nil
}

// Score is the polarity of text in [-1, 1]
func Score(text string) float64 {
	return defaultAnalyzer().PolarityScores(text).Compound
}
