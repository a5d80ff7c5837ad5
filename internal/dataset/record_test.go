package dataset

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePosition(t *testing.T) {
	cases := map[string]Position{
		"QB":           PositionQB,
		"rb":           PositionRB,
		" WR ":         PositionWR,
		"te":           PositionTE,
		"['RB']":       PositionRB,
		`["WR"]`:       PositionWR,
		"['QB', 'TE']": PositionQB,
		"":             PositionUnknown,
		"K":            PositionUnknown,
		"FB":           PositionUnknown,
	}
	for raw, want := range cases {
		assert.Equal(t, want, NormalizePosition(raw), "raw=%q", raw)
	}
}

func TestPositionUnmarshalJSON(t *testing.T) {
	var p Position

	require.NoError(t, json.Unmarshal([]byte(`"rb"`), &p))
	assert.Equal(t, PositionRB, p)

	require.NoError(t, json.Unmarshal([]byte(`["WR","TE"]`), &p))
	assert.Equal(t, PositionWR, p)

	require.NoError(t, json.Unmarshal([]byte(`[]`), &p))
	assert.Equal(t, PositionUnknown, p)

	require.NoError(t, json.Unmarshal([]byte(`null`), &p))
	assert.Equal(t, PositionUnknown, p)

	assert.Error(t, json.Unmarshal([]byte(`42`), &p))
}

func TestGameRecordStatAccessors(t *testing.T) {
	var rec GameRecord

	_, ok := rec.Stat(StatReceptions)
	assert.False(t, ok)

	require.True(t, rec.SetStat(StatReceptions, 7))
	v, ok := rec.Stat(StatReceptions)
	require.True(t, ok)
	assert.Equal(t, 7.0, v)

	assert.False(t, rec.SetStat("sacks", 2))
	_, ok = rec.Stat("sacks")
	assert.False(t, ok)
}

func TestGameRecordJSONOmitsAbsentStats(t *testing.T) {
	rec := GameRecord{PlayerID: "p1", Season: 2025, Position: PositionTE}
	rec.SetStat(StatReceivingYards, 60)

	data, err := json.Marshal(rec)
	require.NoError(t, err)

	assert.Contains(t, string(data), `"receiving_yards":60`)
	assert.NotContains(t, string(data), "passing_yards")
}
