package predict

import (
	"math"
	"sort"

	"github.com/squidworks/gridiron/internal/season"
)

// TrendSlope computes the ordinary-least-squares slope of a player's average
// fantasy points per game against season year, over their full seasonal
// history. Entries with an undefined per-game average are discarded first.
//
// Returns 0.0 when fewer than 2 valid seasons remain or when the regression
// denominator is zero (degenerate input such as a repeated season). With the
// typical 2-10 data points per player, anything fancier than a closed-form
// two-variable fit would overfit.
func TrendSlope(history []season.Summary) float64 {
	points := make([]season.Summary, 0, len(history))
	for _, s := range history {
		if math.IsNaN(s.AvgFPPerGame) {
			continue
		}
		points = append(points, s)
	}
	if len(points) < 2 {
		return 0.0
	}

	sort.Slice(points, func(i, j int) bool { return points[i].Season < points[j].Season })

	n := float64(len(points))
	var sumX, sumY, sumXY, sumX2 float64
	for _, p := range points {
		x := float64(p.Season)
		y := p.AvgFPPerGame
		sumX += x
		sumY += y
		sumXY += x * y
		sumX2 += x * x
	}

	denom := n*sumX2 - sumX*sumX
	if denom == 0 {
		return 0.0
	}
	return (n*sumXY - sumX*sumY) / denom
}
