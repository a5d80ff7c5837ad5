// Package scoring maps raw per-game statistics to fantasy-point values
// under a configurable linear scoring rule.
package scoring

import (
	"github.com/squidworks/gridiron/internal/dataset"
)

// Rules maps a stat category name to its point weight.
type Rules map[string]float64

// DefaultRules returns the standard PPR-style scoring weights.
func DefaultRules() Rules {
	return Rules{
		dataset.StatPassingYards:        0.04,
		dataset.StatPassingTDs:          4,
		dataset.StatInterceptions:       -2,
		dataset.StatRushingYards:        0.1,
		dataset.StatRushingTDs:          6,
		dataset.StatReceptions:          0.5,
		dataset.StatReceivingYards:      0.1,
		dataset.StatReceivingTDs:        6,
		dataset.StatFumblesLost:         -2,
		dataset.StatTwoPointConversions: 2,
	}
}

// Merged overlays overrides on top of the defaults, so a partial scoring
// config still scores every category.
func Merged(overrides map[string]float64) Rules {
	rules := DefaultRules()
	for cat, w := range overrides {
		rules[cat] = w
	}
	return rules
}

// Engine computes fantasy points for game records.
type Engine struct {
	rules Rules
}

// NewEngine creates a scoring engine. Nil rules fall back to DefaultRules.
func NewEngine(rules Rules) *Engine {
	if rules == nil {
		rules = DefaultRules()
	}
	return &Engine{rules: rules}
}

// Apply returns a new slice of records with FantasyPoints populated as the
// weighted sum of the categories present on each record. Absent categories
// contribute zero. The input slice is never mutated.
func (e *Engine) Apply(records []dataset.GameRecord) []dataset.GameRecord {
	scored := make([]dataset.GameRecord, len(records))
	copy(scored, records)
	for i := range scored {
		scored[i].FantasyPoints = e.Score(&scored[i])
	}
	return scored
}

// Score computes the fantasy-point total for a single record.
func (e *Engine) Score(rec *dataset.GameRecord) float64 {
	var total float64
	for _, cat := range dataset.StatCategories {
		weight, scored := e.rules[cat]
		if !scored {
			continue
		}
		if v, ok := rec.Stat(cat); ok {
			total += v * weight
		}
	}
	return total
}
