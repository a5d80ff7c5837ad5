package predict

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/squidworks/gridiron/internal/season"
)

func TestPredictPlayerRisingRB(t *testing.T) {
	p := NewPredictor(2026, 0.3, 0.2)

	history := []season.Summary{
		summary(2023, 10.0),
		summary(2024, 12.0),
		summary(2025, 14.0),
	}

	pred := p.PredictPlayer(history)
	require.NotNil(t, pred)

	// weighted avg with recency weights 1.0/1.3/1.6:
	// (10*1.0 + 12*1.3 + 14*1.6) / 3.9 = 48/3.9
	// trend = 2.0, adjustment = 0.6; neutral consistency adds nothing
	wantAvg := 48.0/3.9 + 0.6
	assert.InDelta(t, wantAvg, pred.PredictedAvgFPPerGame, 0.005)
	assert.InDelta(t, wantAvg*SeasonGames, pred.PredictedSeasonFP, 0.005)
	assert.Greater(t, pred.PredictedSeasonFP, 0.0)

	assert.Equal(t, 2.0, pred.Trend)
	assert.InDelta(t, 12.0, pred.RecentAvgFP, 1e-9)
	assert.Equal(t, 0.5, pred.ConsistencyScore)
	assert.Equal(t, 3, pred.SeasonsAnalyzed)
	assert.Equal(t, 2025, pred.LastSeason)
	assert.Equal(t, "p1", pred.PlayerID)
	assert.Equal(t, "RB", pred.Position)
}

func TestPredictPlayerNewestSeasonWeightedHeaviest(t *testing.T) {
	p := NewPredictor(2026, 0.0, 0.0)

	rising := p.PredictPlayer([]season.Summary{summary(2024, 10.0), summary(2025, 20.0)})
	falling := p.PredictPlayer([]season.Summary{summary(2024, 20.0), summary(2025, 10.0)})
	require.NotNil(t, rising)
	require.NotNil(t, falling)

	// same two values, so the ordering difference is purely the recency
	// weighting: the prediction must lean toward the newer season
	assert.Greater(t, rising.PredictedAvgFPPerGame, falling.PredictedAvgFPPerGame)
	assert.InDelta(t, (10.0+20.0*1.3)/2.3, rising.PredictedAvgFPPerGame, 0.005)
}

func TestPredictPlayerNeverNegative(t *testing.T) {
	// an extreme trend weight drives the blend far below zero
	p := NewPredictor(2026, 100.0, 0.2)

	history := []season.Summary{
		summary(2023, 20.0),
		summary(2024, 10.0),
		summary(2025, 1.0),
	}

	pred := p.PredictPlayer(history)
	require.NotNil(t, pred)
	assert.Zero(t, pred.PredictedAvgFPPerGame)
	assert.Zero(t, pred.PredictedSeasonFP)
}

func TestPredictPlayerNoRecentSeasons(t *testing.T) {
	p := NewPredictor(2026, 0.3, 0.2)

	// retired before the lookback window opens (2023)
	history := []season.Summary{
		summary(2019, 15.0),
		summary(2020, 16.0),
	}
	assert.Nil(t, p.PredictPlayer(history))
}

func TestPredictPlayerEmptyHistory(t *testing.T) {
	p := NewPredictor(2026, 0.3, 0.2)
	assert.Nil(t, p.PredictPlayer(nil))
}

func TestPredictPlayerAllRecentAveragesUndefined(t *testing.T) {
	p := NewPredictor(2026, 0.3, 0.2)

	history := []season.Summary{
		summary(2024, math.NaN()),
		summary(2025, math.NaN()),
	}
	assert.Nil(t, p.PredictPlayer(history))
}

// The trend is fit over the player's whole career while the base average only
// looks at the last 3 seasons. A veteran with a long flat stretch before a
// late surge therefore gets a flatter trend than the surge alone suggests.
func TestPredictPlayerTrendUsesFullHistory(t *testing.T) {
	p := NewPredictor(2026, 0.3, 0.2)

	history := []season.Summary{
		summary(2019, 10.0),
		summary(2020, 10.0),
		summary(2021, 10.0),
		summary(2022, 10.0),
		summary(2023, 10.0),
		summary(2024, 12.0),
		summary(2025, 14.0),
	}

	pred := p.PredictPlayer(history)
	require.NotNil(t, pred)

	// slope over 2019-2025 is 4/7, well below the 2.0 of the recent window
	assert.InDelta(t, 4.0/7.0, pred.Trend, 0.001)
	assert.Less(t, pred.Trend, 2.0)

	// the base average still comes from 2023-2025 only
	assert.InDelta(t, 12.0, pred.RecentAvgFP, 1e-9)
	assert.Equal(t, 3, pred.SeasonsAnalyzed)
}

func TestPredictPlayerConsistencyBonus(t *testing.T) {
	p := NewPredictor(2026, 0.0, 0.2)

	steady := []season.Summary{summary(2024, 10.0), summary(2025, 10.0)}
	for i := range steady {
		steady[i].ConsistencyScore = 1.0
	}
	volatile := []season.Summary{summary(2024, 10.0), summary(2025, 10.0)}
	for i := range volatile {
		volatile[i].ConsistencyScore = 0.1
	}

	steadyPred := p.PredictPlayer(steady)
	volatilePred := p.PredictPlayer(volatile)
	require.NotNil(t, steadyPred)
	require.NotNil(t, volatilePred)

	// bonus is centered at 0.5: perfect consistency adds, volatility subtracts
	assert.InDelta(t, 10.0+0.5*0.2, steadyPred.PredictedAvgFPPerGame, 1e-9)
	assert.InDelta(t, 10.0-0.4*0.2, volatilePred.PredictedAvgFPPerGame, 1e-9)
}

func TestPredictPlayerSeasonsAnalyzedCountsLookbackEntries(t *testing.T) {
	p := NewPredictor(2026, 0.3, 0.2)

	history := []season.Summary{
		summary(2023, math.NaN()),
		summary(2024, 11.0),
		summary(2025, 13.0),
	}

	pred := p.PredictPlayer(history)
	require.NotNil(t, pred)
	// the NaN season still counts as analyzed, it just cannot contribute
	assert.Equal(t, 3, pred.SeasonsAnalyzed)
}
