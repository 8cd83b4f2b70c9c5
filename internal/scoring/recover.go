// Package scoring recovers numeric 1-10 scores from free-form evaluator text.
package scoring

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	MinScore = 1.0
	MaxScore = 10.0

	// NeutralScore is returned when the text carries neither a number nor a
	// recognizable quality adjective.
	NeutralScore = 7.0
)

// scorePatterns are tried in order; the first pattern that matches anything wins.
var scorePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:score|rating):\s*(\d+\.?\d*)(?:/10)?`),
	regexp.MustCompile(`(\d+\.?\d*)/10`),
	regexp.MustCompile(`(\d+\.?\d*)\s*(?:out of 10|/10)`),
	regexp.MustCompile(`(\d+\.?\d*)`),
}

type keywordBand struct {
	words []string
	score float64
}

var keywordBands = []keywordBand{
	{words: []string{"excellent", "outstanding", "exceptional"}, score: 9.0},
	{words: []string{"good", "solid", "well"}, score: 7.5},
	{words: []string{"adequate", "acceptable", "reasonable"}, score: 6.5},
	{words: []string{"poor", "lacking", "insufficient"}, score: 4.0},
}

// Recover extracts a score in [MinScore, MaxScore] from text. Numbers above 10
// are read as percentages and divided by 10. Without a number it falls back to
// quality adjectives, then to NeutralScore.
func Recover(text string) float64 {
	if strings.TrimSpace(text) == "" {
		return NeutralScore
	}

	lower := strings.ToLower(text)
	for _, re := range scorePatterns {
		m := re.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		if v > MaxScore {
			v /= 10
		}
		return clamp(v)
	}

	for _, band := range keywordBands {
		for _, w := range band.words {
			if strings.Contains(lower, w) {
				return band.score
			}
		}
	}
	return NeutralScore
}

func clamp(v float64) float64 {
	return max(MinScore, min(MaxScore, v))
}
