// Package quality maps aggregate scores onto categorical quality levels.
package quality

// Level is a categorical quality bucket for an aggregate score.
type Level string

const (
	Excellent        Level = "excellent"
	Good             Level = "good"
	Acceptable       Level = "acceptable"
	NeedsImprovement Level = "needs_improvement"
	Poor             Level = "poor"

	// Unknown is reported when no score was produced.
	Unknown Level = "unknown"
)

// Lower bounds (inclusive) of each band.
const (
	ExcellentThreshold        = 8.5
	GoodThreshold             = 7.0
	AcceptableThreshold       = 5.5
	NeedsImprovementThreshold = 4.0
)

var bands = []struct {
	min   float64
	level Level
}{
	{ExcellentThreshold, Excellent},
	{GoodThreshold, Good},
	{AcceptableThreshold, Acceptable},
	{NeedsImprovementThreshold, NeedsImprovement},
}

// Classify returns the first band whose lower bound the score reaches.
func Classify(score float64) Level {
	for _, b := range bands {
		if score >= b.min {
			return b.level
		}
	}
	return Poor
}

// Levels lists the classified levels from best to worst.
func Levels() []Level {
	return []Level{Excellent, Good, Acceptable, NeedsImprovement, Poor}
}

func (l Level) String() string {
	return string(l)
}
