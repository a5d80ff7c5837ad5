package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/squidworks/gridiron/internal/dataset"
)

func f(v float64) *float64 { return &v }

func TestScoreWeightedSum(t *testing.T) {
	engine := NewEngine(nil)

	rec := dataset.GameRecord{
		PlayerID:      "qb1",
		PassingYards:  f(300),
		PassingTDs:    f(2),
		Interceptions: f(1),
		RushingYards:  f(20),
	}

	// 300*0.04 + 2*4 + 1*(-2) + 20*0.1 = 12 + 8 - 2 + 2
	got := engine.Score(&rec)
	assert.InDelta(t, 20.0, got, 1e-9)
}

func TestScoreAbsentCategoriesContributeZero(t *testing.T) {
	engine := NewEngine(nil)

	rec := dataset.GameRecord{PlayerID: "rb1", RushingYards: f(100)}
	assert.InDelta(t, 10.0, engine.Score(&rec), 1e-9)

	empty := dataset.GameRecord{PlayerID: "rb2"}
	assert.Zero(t, engine.Score(&empty))
}

func TestScorePPRReception(t *testing.T) {
	engine := NewEngine(nil)

	rec := dataset.GameRecord{
		PlayerID:       "wr1",
		Receptions:     f(8),
		ReceivingYards: f(110),
		ReceivingTDs:   f(1),
		FumblesLost:    f(1),
	}

	// 8*0.5 + 110*0.1 + 1*6 + 1*(-2) = 4 + 11 + 6 - 2
	assert.InDelta(t, 19.0, engine.Score(&rec), 1e-9)
}

func TestMergedOverridesDefaults(t *testing.T) {
	rules := Merged(map[string]float64{dataset.StatReceptions: 1.0})

	assert.Equal(t, 1.0, rules[dataset.StatReceptions])
	// untouched defaults survive a partial override
	assert.Equal(t, 0.04, rules[dataset.StatPassingYards])
	assert.Len(t, rules, len(DefaultRules()))
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	engine := NewEngine(nil)
	input := []dataset.GameRecord{
		{PlayerID: "a", RushingYards: f(50)},
		{PlayerID: "b", Receptions: f(4)},
	}

	scored := engine.Apply(input)

	assert.Zero(t, input[0].FantasyPoints)
	assert.Zero(t, input[1].FantasyPoints)
	assert.InDelta(t, 5.0, scored[0].FantasyPoints, 1e-9)
	assert.InDelta(t, 2.0, scored[1].FantasyPoints, 1e-9)
}
