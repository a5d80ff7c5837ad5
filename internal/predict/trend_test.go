package predict

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/squidworks/gridiron/internal/season"
)

func summary(seasonYr int, avg float64) season.Summary {
	return season.Summary{
		PlayerID:         "p1",
		PlayerName:       "Player One",
		Season:           seasonYr,
		Position:         "RB",
		AvgFPPerGame:     avg,
		ConsistencyScore: 0.5,
	}
}

func TestTrendSlopeLinearRise(t *testing.T) {
	history := []season.Summary{
		summary(2020, 10.0),
		summary(2021, 12.0),
		summary(2022, 14.0),
	}
	assert.InDelta(t, 2.0, TrendSlope(history), 1e-9)
}

func TestTrendSlopeSingleSeason(t *testing.T) {
	assert.Zero(t, TrendSlope([]season.Summary{summary(2024, 15.0)}))
}

func TestTrendSlopeEmpty(t *testing.T) {
	assert.Zero(t, TrendSlope(nil))
}

func TestTrendSlopeRepeatedSeasonDegenerate(t *testing.T) {
	history := []season.Summary{
		summary(2024, 10.0),
		summary(2024, 20.0),
	}
	assert.Zero(t, TrendSlope(history))
}

func TestTrendSlopeIgnoresUndefinedAverages(t *testing.T) {
	history := []season.Summary{
		summary(2020, 10.0),
		summary(2021, math.NaN()),
		summary(2022, 14.0),
	}
	// NaN entry dropped, slope fit on (2020,10) and (2022,14)
	assert.InDelta(t, 2.0, TrendSlope(history), 1e-9)
}

func TestTrendSlopeUnsortedInput(t *testing.T) {
	history := []season.Summary{
		summary(2022, 14.0),
		summary(2020, 10.0),
		summary(2021, 12.0),
	}
	assert.InDelta(t, 2.0, TrendSlope(history), 1e-9)
}

func TestTrendSlopeDecline(t *testing.T) {
	history := []season.Summary{
		summary(2023, 18.0),
		summary(2024, 15.0),
		summary(2025, 12.0),
	}
	assert.InDelta(t, -3.0, TrendSlope(history), 1e-9)
}
