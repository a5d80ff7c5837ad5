// Package season rolls scored per-game records up into per-player-per-season
// summaries.
package season

import (
	"math"
	"sort"

	"github.com/squidworks/gridiron/internal/dataset"
)

// Summary is the per (player, season) aggregate of fantasy points.
// FPStd is NaN when the group has fewer than 2 games; ConsistencyScore
// always carries a usable value (0.5 when the std is undefined).
type Summary struct {
	PlayerID         string
	PlayerName       string
	Season           int
	Position         dataset.Position
	TotalFP          float64
	AvgFPPerGame     float64
	GamesPlayed      int
	FPStd            float64
	MinFP            float64
	MaxFP            float64
	ConsistencyScore float64
}

type groupKey struct {
	playerID   string
	playerName string
	season     int
	position   dataset.Position
}

// Aggregate groups scored records by (player id, name, season, position) and
// computes the seasonal summary for each group. Output is sorted by player id
// then season for deterministic downstream processing.
func Aggregate(records []dataset.GameRecord) []Summary {
	groups := make(map[groupKey][]float64)
	for i := range records {
		rec := &records[i]
		key := groupKey{rec.PlayerID, rec.PlayerName, rec.Season, rec.Position}
		groups[key] = append(groups[key], rec.FantasyPoints)
	}

	summaries := make([]Summary, 0, len(groups))
	for key, points := range groups {
		summaries = append(summaries, summarize(key, points))
	}

	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].PlayerID != summaries[j].PlayerID {
			return summaries[i].PlayerID < summaries[j].PlayerID
		}
		if summaries[i].Season != summaries[j].Season {
			return summaries[i].Season < summaries[j].Season
		}
		return summaries[i].Position < summaries[j].Position
	})
	return summaries
}

func summarize(key groupKey, points []float64) Summary {
	s := Summary{
		PlayerID:    key.playerID,
		PlayerName:  key.playerName,
		Season:      key.season,
		Position:    key.position,
		GamesPlayed: len(points),
		MinFP:       points[0],
		MaxFP:       points[0],
	}
	for _, fp := range points {
		s.TotalFP += fp
		if fp < s.MinFP {
			s.MinFP = fp
		}
		if fp > s.MaxFP {
			s.MaxFP = fp
		}
	}
	s.AvgFPPerGame = s.TotalFP / float64(len(points))
	s.FPStd = sampleStd(points, s.AvgFPPerGame)
	s.ConsistencyScore = Consistency(s.FPStd)
	return s
}

// sampleStd returns the sample (n-1) standard deviation, or NaN when fewer
// than 2 observations exist. The undefined case is a NaN sentinel, not zero:
// one game tells us nothing about variance.
func sampleStd(points []float64, mean float64) float64 {
	if len(points) < 2 {
		return math.NaN()
	}
	var ss float64
	for _, fp := range points {
		d := fp - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(points)-1))
}

// Consistency maps a fantasy-point standard deviation to (0, 1]: 1/(std+1),
// approaching 1 as variance vanishes and decaying toward 0 as it grows.
// An undefined (NaN) std yields the neutral default 0.5.
func Consistency(std float64) float64 {
	if math.IsNaN(std) {
		return 0.5
	}
	return 1.0 / (std + 1.0)
}
