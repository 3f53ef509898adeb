// Package sentiment scores headline text with the VADER lexicon and
// maps the polarity onto a three-way label.
package sentiment

import (
	"github.com/jonreiter/govader"
)

// Fixed classification thresholds. Polarity strictly above/below the
// threshold flips the label; the boundary values themselves are Neutral.
const (
	positiveThreshold = 0.1
	negativeThreshold = -0.1
)

// Result is the sentiment classification of one piece of text.
type Result struct {
	Label    string  // "Positive", "Neutral", or "Negative"
	Class    string  // badge style class: "pos", "neu", or "neg"
	Polarity float64 // compound polarity in [-1, 1]
}

// analyzer is process-wide; govader's analyzer is stateless after construction.
var analyzer = govader.NewSentimentIntensityAnalyzer()

// Score computes the VADER compound polarity of text and classifies it.
// Pure and deterministic: the same text always yields the same result.
func Score(text string) Result {
	return Classify(analyzer.PolarityScores(text).Compound)
}

// Classify maps a polarity value onto the three-way label.
func Classify(polarity float64) Result {
	switch {
	case polarity > positiveThreshold:
		return Result{Label: "Positive", Class: "pos", Polarity: polarity}
	case polarity < negativeThreshold:
		return Result{Label: "Negative", Class: "neg", Polarity: polarity}
	default:
		return Result{Label: "Neutral", Class: "neu", Polarity: polarity}
	}
}
