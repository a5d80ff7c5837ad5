package nflverse

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/squidworks/gridiron/internal/dataset"
)

func TestParseSeasonCSV(t *testing.T) {
	csvData := strings.Join([]string{
		"player_id,player_display_name,season,week,position,passing_yards,passing_tds,passing_interceptions,rushing_yards",
		"00-001,Joe Passer,2025,1,QB,310,2,1,15",
		"00-002,Bob Runner,2025,1,['RB'],NA,NA,NA,112",
		",Ghost Row,2025,1,WR,,,,",
	}, "\n")

	records, err := ParseSeasonCSV(strings.NewReader(csvData), 2025)
	require.NoError(t, err)
	require.Len(t, records, 2, "rows without a player id are dropped")

	qb := records[0]
	assert.Equal(t, "00-001", qb.PlayerID)
	assert.Equal(t, "Joe Passer", qb.PlayerName)
	assert.Equal(t, 2025, qb.Season)
	assert.Equal(t, 1, qb.Week)
	assert.Equal(t, dataset.PositionQB, qb.Position)

	v, ok := qb.Stat(dataset.StatPassingYards)
	require.True(t, ok)
	assert.Equal(t, 310.0, v)
	// passing_interceptions maps onto the canonical interceptions category
	v, ok = qb.Stat(dataset.StatInterceptions)
	require.True(t, ok)
	assert.Equal(t, 1.0, v)

	rb := records[1]
	assert.Equal(t, dataset.PositionRB, rb.Position, "list-style position collapses to its first element")
	_, ok = rb.Stat(dataset.StatPassingYards)
	assert.False(t, ok, "NA cells stay absent")
	v, ok = rb.Stat(dataset.StatRushingYards)
	require.True(t, ok)
	assert.Equal(t, 112.0, v)
}

func TestParseSeasonCSVFallbackSeason(t *testing.T) {
	csvData := "player_id,player_display_name,position,receptions\n00-003,Sam Catcher,WR,6\n"

	records, err := ParseSeasonCSV(strings.NewReader(csvData), 2024)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 2024, records[0].Season, "season column absent, fetch-season applies")
}

func TestParseSeasonCSVMissingPlayerIDColumn(t *testing.T) {
	csvData := "name,season\nJoe,2025\n"

	_, err := ParseSeasonCSV(strings.NewReader(csvData), 2025)
	assert.Error(t, err)
}

func TestParseSeasonCSVRaggedRows(t *testing.T) {
	csvData := "player_id,player_display_name,season,position,rushing_yards\n00-004,Short Row,2025\n"

	records, err := ParseSeasonCSV(strings.NewReader(csvData), 2025)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, dataset.PositionUnknown, records[0].Position)
}
