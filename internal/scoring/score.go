// Package scoring turns raw campaign metrics into a bounded efficiency score
// and rolls stored entries up into dashboard statistics. Everything here is
// pure and safe for concurrent use.
package scoring

import (
	"math"
	"sort"
	"strconv"
)

const (
	MinScore = 0.0
	MaxScore = 10.0

	// DefaultWeight applies to any source missing from the weight table.
	DefaultWeight = 1.0

	scale     = 10
	precision = 2
)

// sourceWeights is read-only after init. Keys are matched case-sensitively.
var sourceWeights = map[string]float64{
	"Facebook":  1.2,
	"X":         1.1,
	"Instagram": 1.3,
	"Google":    1.4,
	"TikTok":    1.5,
	"Flyers":    0.5,
	"Billboard": 0.8,
	"Unknown":   0.1,
}

type SourceWeight struct {
	Source string  `json:"source"`
	Weight float64 `json:"weight"`
}

func Weight(source string) float64 {
	if w, ok := sourceWeights[source]; ok {
		return w
	}
	return DefaultWeight
}

// IsKnown reports whether source has an entry in the weight table.
func IsKnown(source string) bool {
	_, ok := sourceWeights[source]
	return ok
}

// KnownSources returns the channel names of the weight table in sorted order.
func KnownSources() []string {
	sources := make([]string, 0, len(sourceWeights))
	for s := range sourceWeights {
		sources = append(sources, s)
	}
	sort.Strings(sources)
	return sources
}

func Sources() []SourceWeight {
	known := KnownSources()
	out := make([]SourceWeight, 0, len(known))
	for _, s := range known {
		out = append(out, SourceWeight{Source: s, Weight: sourceWeights[s]})
	}
	return out
}

// Raw returns clicks per unit of cost, weighted by source and scaled by 10,
// rounded to two decimals. The result is not clamped and may exceed MaxScore.
// Zero cost yields zero.
func Raw(clickCount int64, cost float64, source string) float64 {
	if cost == 0 {
		return 0
	}

	efficiency := float64(clickCount) / cost
	return round(efficiency * Weight(source) * scale)
}

// Compute is Raw clamped into [MinScore, MaxScore]. This is the value stored
// with an entry.
func Compute(clickCount int64, cost float64, source string) float64 {
	return Clamp(Raw(clickCount, cost, source))
}

// Clamp bounds score to [MinScore, MaxScore] and rounds it to two decimals.
// NaN maps to MinScore.
func Clamp(score float64) float64 {
	if math.IsNaN(score) {
		return MinScore
	}
	return round(math.Max(MinScore, math.Min(MaxScore, score)))
}

// round works on the exact binary value of v and sends exact ties to the even
// digit: 0.125 becomes 0.12, 0.375 becomes 0.38.
func round(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', precision, 64), 64)
	if err != nil {
		return v
	}
	return r
}
