package season

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/squidworks/gridiron/internal/dataset"
)

func game(playerID string, seasonYr int, fp float64) dataset.GameRecord {
	return dataset.GameRecord{
		PlayerID:      playerID,
		PlayerName:    playerID + " Name",
		Season:        seasonYr,
		Position:      dataset.PositionRB,
		FantasyPoints: fp,
	}
}

func TestAggregateBasicStats(t *testing.T) {
	records := []dataset.GameRecord{
		game("p1", 2024, 10),
		game("p1", 2024, 20),
		game("p1", 2024, 15),
	}

	summaries := Aggregate(records)
	require.Len(t, summaries, 1)

	s := summaries[0]
	assert.Equal(t, "p1", s.PlayerID)
	assert.Equal(t, 2024, s.Season)
	assert.Equal(t, 3, s.GamesPlayed)
	assert.InDelta(t, 45.0, s.TotalFP, 1e-9)
	assert.InDelta(t, 15.0, s.AvgFPPerGame, 1e-9)
	assert.InDelta(t, 10.0, s.MinFP, 1e-9)
	assert.InDelta(t, 20.0, s.MaxFP, 1e-9)
	// sample std of {10, 20, 15} = 5
	assert.InDelta(t, 5.0, s.FPStd, 1e-9)
	assert.InDelta(t, 1.0/6.0, s.ConsistencyScore, 1e-9)
}

func TestAggregateSingleGameStdUndefined(t *testing.T) {
	summaries := Aggregate([]dataset.GameRecord{game("p1", 2024, 12)})
	require.Len(t, summaries, 1)

	s := summaries[0]
	assert.True(t, math.IsNaN(s.FPStd), "std of one game must be NaN, not zero")
	assert.Equal(t, 0.5, s.ConsistencyScore)
}

func TestAggregateIdenticalGamesPerfectConsistency(t *testing.T) {
	summaries := Aggregate([]dataset.GameRecord{
		game("p1", 2024, 9),
		game("p1", 2024, 9),
		game("p1", 2024, 9),
	})
	require.Len(t, summaries, 1)

	s := summaries[0]
	assert.Zero(t, s.FPStd)
	assert.Equal(t, 1.0, s.ConsistencyScore)
}

func TestAggregateGroupsByPlayerAndSeason(t *testing.T) {
	records := []dataset.GameRecord{
		game("b", 2024, 10),
		game("a", 2023, 8),
		game("a", 2024, 12),
		game("a", 2024, 14),
	}

	summaries := Aggregate(records)
	require.Len(t, summaries, 3)

	// sorted by player id then season
	assert.Equal(t, "a", summaries[0].PlayerID)
	assert.Equal(t, 2023, summaries[0].Season)
	assert.Equal(t, "a", summaries[1].PlayerID)
	assert.Equal(t, 2024, summaries[1].Season)
	assert.Equal(t, 2, summaries[1].GamesPlayed)
	assert.Equal(t, "b", summaries[2].PlayerID)
}

func TestConsistencyBounds(t *testing.T) {
	assert.Equal(t, 1.0, Consistency(0))
	assert.Equal(t, 0.5, Consistency(math.NaN()))
	assert.Greater(t, Consistency(1), Consistency(10))
	assert.Greater(t, Consistency(10), 0.0)
}
