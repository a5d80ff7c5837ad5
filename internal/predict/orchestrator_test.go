package predict

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/squidworks/gridiron/internal/dataset"
	"github.com/squidworks/gridiron/internal/season"
)

func playerSummary(playerID string, pos dataset.Position, seasonYr int, avg float64) season.Summary {
	return season.Summary{
		PlayerID:         playerID,
		PlayerName:       playerID + " Name",
		Season:           seasonYr,
		Position:         pos,
		AvgFPPerGame:     avg,
		ConsistencyScore: 0.5,
	}
}

func newTestOrchestrator(opts Options) *Orchestrator {
	return NewOrchestrator(NewPredictor(2026, 0.3, 0.2), opts, nil)
}

func TestRunSinglePlayer(t *testing.T) {
	orch := newTestOrchestrator(Options{MinSeasonsPlayed: 2})

	summaries := []season.Summary{
		playerSummary("p1", dataset.PositionRB, 2023, 10.0),
		playerSummary("p1", dataset.PositionRB, 2024, 12.0),
		playerSummary("p1", dataset.PositionRB, 2025, 14.0),
	}

	preds, err := orch.Run(summaries)
	require.NoError(t, err)
	require.Len(t, preds, 1)
	assert.Equal(t, "p1", preds[0].PlayerID)
	assert.Greater(t, preds[0].PredictedSeasonFP, 0.0)
}

func TestRunMinSeasonsExcludes(t *testing.T) {
	orch := newTestOrchestrator(Options{MinSeasonsPlayed: 5})

	summaries := []season.Summary{
		playerSummary("p1", dataset.PositionRB, 2023, 10.0),
		playerSummary("p1", dataset.PositionRB, 2024, 12.0),
		playerSummary("p1", dataset.PositionRB, 2025, 14.0),
	}

	preds, err := orch.Run(summaries)
	assert.Nil(t, preds)
	assert.ErrorIs(t, err, ErrNoPredictions)
}

func TestRunPositionFilter(t *testing.T) {
	orch := newTestOrchestrator(Options{
		MinSeasonsPlayed: 2,
		PositionFilters:  map[string]bool{"QB": true, "RB": false},
	})

	summaries := []season.Summary{
		playerSummary("qb1", dataset.PositionQB, 2024, 18.0),
		playerSummary("qb1", dataset.PositionQB, 2025, 20.0),
		playerSummary("rb1", dataset.PositionRB, 2024, 14.0),
		playerSummary("rb1", dataset.PositionRB, 2025, 15.0),
	}

	preds, err := orch.Run(summaries)
	require.NoError(t, err)
	require.Len(t, preds, 1)
	assert.Equal(t, "qb1", preds[0].PlayerID)
}

func TestRunPositionFilterMatchesNothing(t *testing.T) {
	orch := newTestOrchestrator(Options{
		MinSeasonsPlayed: 2,
		PositionFilters:  map[string]bool{"TE": true},
	})

	summaries := []season.Summary{
		playerSummary("rb1", dataset.PositionRB, 2024, 14.0),
		playerSummary("rb1", dataset.PositionRB, 2025, 15.0),
	}

	_, err := orch.Run(summaries)
	assert.ErrorIs(t, err, ErrNoPredictions)
}

func TestRunAllPositionsDisabledMeansNoFilter(t *testing.T) {
	orch := newTestOrchestrator(Options{
		MinSeasonsPlayed: 2,
		PositionFilters:  map[string]bool{"QB": false, "RB": false},
	})

	summaries := []season.Summary{
		playerSummary("rb1", dataset.PositionRB, 2024, 14.0),
		playerSummary("rb1", dataset.PositionRB, 2025, 15.0),
	}

	preds, err := orch.Run(summaries)
	require.NoError(t, err)
	assert.Len(t, preds, 1)
}

func TestRunSortsDescending(t *testing.T) {
	orch := newTestOrchestrator(Options{MinSeasonsPlayed: 2, Workers: 4})

	var summaries []season.Summary
	for _, p := range []struct {
		id  string
		avg float64
	}{
		{"low", 5.0},
		{"high", 20.0},
		{"mid", 12.0},
	} {
		summaries = append(summaries,
			playerSummary(p.id, dataset.PositionWR, 2024, p.avg),
			playerSummary(p.id, dataset.PositionWR, 2025, p.avg),
		)
	}

	preds, err := orch.Run(summaries)
	require.NoError(t, err)
	require.Len(t, preds, 3)
	assert.Equal(t, "high", preds[0].PlayerID)
	assert.Equal(t, "mid", preds[1].PlayerID)
	assert.Equal(t, "low", preds[2].PlayerID)
}

func TestRunTiesKeepInputOrder(t *testing.T) {
	orch := newTestOrchestrator(Options{MinSeasonsPlayed: 2, Workers: 4})

	var summaries []season.Summary
	for _, id := range []string{"first", "second", "third"} {
		summaries = append(summaries,
			playerSummary(id, dataset.PositionTE, 2024, 10.0),
			playerSummary(id, dataset.PositionTE, 2025, 10.0),
		)
	}

	preds, err := orch.Run(summaries)
	require.NoError(t, err)
	require.Len(t, preds, 3)
	assert.Equal(t, "first", preds[0].PlayerID)
	assert.Equal(t, "second", preds[1].PlayerID)
	assert.Equal(t, "third", preds[2].PlayerID)
}

func TestRunSkipsPlayersWithoutRecentData(t *testing.T) {
	orch := newTestOrchestrator(Options{MinSeasonsPlayed: 2})

	summaries := []season.Summary{
		// eligible but retired before the lookback window
		playerSummary("old", dataset.PositionQB, 2018, 22.0),
		playerSummary("old", dataset.PositionQB, 2019, 21.0),
		playerSummary("active", dataset.PositionQB, 2024, 16.0),
		playerSummary("active", dataset.PositionQB, 2025, 17.0),
	}

	preds, err := orch.Run(summaries)
	require.NoError(t, err)
	require.Len(t, preds, 1)
	assert.Equal(t, "active", preds[0].PlayerID)
}

func TestTopN(t *testing.T) {
	orch := newTestOrchestrator(Options{MinSeasonsPlayed: 2, TopN: 2})

	preds := []dataset.Prediction{
		{PlayerID: "a", PredictedSeasonFP: 300},
		{PlayerID: "b", PredictedSeasonFP: 250},
		{PlayerID: "c", PredictedSeasonFP: 200},
	}

	assert.Len(t, orch.TopN(preds, 0), 2)
	assert.Len(t, orch.TopN(preds, 1), 1)
	assert.Len(t, orch.TopN(preds, 10), 3)
	assert.Equal(t, "a", orch.TopN(preds, 1)[0].PlayerID)
}
