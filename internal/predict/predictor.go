// Package predict turns seasonal summaries into a ranked fantasy-point
// forecast for an upcoming season.
package predict

import (
	"math"
	"sort"

	"github.com/squidworks/gridiron/internal/dataset"
	"github.com/squidworks/gridiron/internal/season"
)

const (
	// SeasonGames is the fixed length a per-game prediction is extrapolated to.
	SeasonGames = 17

	// lookbackSeasons is the window used for the base weighted average.
	lookbackSeasons = 3

	// recencyStep is the per-entry increment of the recency weights.
	recencyStep = 0.3
)

// Predictor computes a single player's projection for the target season.
type Predictor struct {
	TargetSeason      int
	TrendWeight       float64
	ConsistencyWeight float64
}

// NewPredictor builds a predictor with the given target season and blend
// weights.
func NewPredictor(targetSeason int, trendWeight, consistencyWeight float64) *Predictor {
	return &Predictor{
		TargetSeason:      targetSeason,
		TrendWeight:       trendWeight,
		ConsistencyWeight: consistencyWeight,
	}
}

// PredictPlayer blends a recency-weighted average, a trend adjustment, and a
// consistency bonus into one projection. history is the player's full
// seasonal history in any order. Returns nil when the player has no usable
// data inside the lookback window: that is "insufficient recent data", not
// an error.
//
// The trend is deliberately estimated over the full history while the base
// average uses only the lookback window: the longer window smooths the slope
// estimate, the short one keeps the base prediction recent.
func (p *Predictor) PredictPlayer(history []season.Summary) *dataset.Prediction {
	if len(history) == 0 {
		return nil
	}

	recent := make([]season.Summary, 0, len(history))
	for _, s := range history {
		if s.Season >= p.TargetSeason-lookbackSeasons {
			recent = append(recent, s)
		}
	}
	if len(recent) == 0 {
		return nil
	}
	sort.Slice(recent, func(i, j int) bool { return recent[i].Season < recent[j].Season })

	valid := make([]season.Summary, 0, len(recent))
	for _, s := range recent {
		if math.IsNaN(s.AvgFPPerGame) {
			continue
		}
		valid = append(valid, s)
	}
	if len(valid) == 0 {
		return nil
	}

	// Ascending weights 1.0 + 0.3*i over the season-ascending set, so the
	// newest season is weighted heaviest.
	weights := make([]float64, len(valid))
	for i := range weights {
		weights[i] = 1.0 + recencyStep*float64(i)
	}

	var weightedSum, weightTotal float64
	for i, s := range valid {
		weightedSum += s.AvgFPPerGame * weights[i]
		weightTotal += weights[i]
	}
	weightedAvg := weightedSum / weightTotal

	trend := TrendSlope(history)
	trendAdjustment := trend * p.TrendWeight

	consistency := meanConsistency(recent)
	consistencyBonus := (consistency - 0.5) * p.ConsistencyWeight

	predictedAvg := weightedAvg + trendAdjustment + consistencyBonus
	if predictedAvg < 0 {
		predictedAvg = 0.0
	}

	var recentSum float64
	for _, s := range valid {
		recentSum += s.AvgFPPerGame
	}

	newest := recent[len(recent)-1]
	return &dataset.Prediction{
		PlayerID:              newest.PlayerID,
		PlayerName:            newest.PlayerName,
		Position:              string(newest.Position),
		PredictedAvgFPPerGame: round2(predictedAvg),
		PredictedSeasonFP:     round2(predictedAvg * SeasonGames),
		RecentAvgFP:           round2(recentSum / float64(len(valid))),
		Trend:                 round3(trend),
		ConsistencyScore:      round3(consistency),
		SeasonsAnalyzed:       len(recent),
		LastSeason:            newest.Season,
	}
}

// meanConsistency averages consistency scores over the lookback entries,
// falling back to the neutral 0.5 when none are usable.
func meanConsistency(recent []season.Summary) float64 {
	var sum float64
	var n int
	for _, s := range recent {
		if math.IsNaN(s.ConsistencyScore) {
			continue
		}
		sum += s.ConsistencyScore
		n++
	}
	if n == 0 {
		return 0.5
	}
	return sum / float64(n)
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
