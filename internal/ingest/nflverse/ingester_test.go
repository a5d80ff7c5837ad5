package nflverse

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/squidworks/gridiron/internal/dataset"
	"github.com/squidworks/gridiron/internal/scoring"
)

func statsServer(t *testing.T, published map[int]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var season int
		if _, err := fmt.Sscanf(r.URL.Path, "/player_stats/player_stats_%d.csv", &season); err != nil {
			http.NotFound(w, r)
			return
		}
		body, ok := published[season]
		if !ok {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRefreshWritesScoredDataset(t *testing.T) {
	srv := statsServer(t, map[int]string{
		2024: "player_id,player_display_name,week,position,rushing_yards\n00-001,Test Back,1,RB,120\n",
		2025: "player_id,player_display_name,week,position,rushing_yards\n00-001,Test Back,1,RB,90\n",
	})

	dir := t.TempDir()
	ing := NewIngester(NewClient(srv.URL), scoring.NewEngine(nil), nil, dir, nil)

	require.NoError(t, ing.Refresh(context.Background(), []int{2024, 2025}))

	records, err := dataset.ReadRecords(ing.DatasetPath(), dataset.FormatParquet)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "00-001", records[0].PlayerID)
	assert.Equal(t, 2024, records[0].Season)
	// 120 rushing yards at 0.1/yard, scored on the way in
	assert.InDelta(t, 12.0, records[0].FantasyPoints, 1e-9)
}

func TestRefreshSkipsUnpublishedSeasons(t *testing.T) {
	srv := statsServer(t, map[int]string{
		2024: "player_id,player_display_name,week,position,receptions\n00-002,Test Receiver,1,WR,5\n",
	})

	ing := NewIngester(NewClient(srv.URL), scoring.NewEngine(nil), nil, t.TempDir(), nil)

	// 2026 is not published yet; the refresh still succeeds on 2024 alone
	require.NoError(t, ing.Refresh(context.Background(), []int{2024, 2026}))

	records, err := dataset.ReadRecords(ing.DatasetPath(), dataset.FormatParquet)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestRefreshFailsWhenNothingFetched(t *testing.T) {
	srv := statsServer(t, nil)

	ing := NewIngester(NewClient(srv.URL), scoring.NewEngine(nil), nil, t.TempDir(), nil)
	assert.Error(t, ing.Refresh(context.Background(), []int{2024, 2025}))
}

func TestCheckFreshness(t *testing.T) {
	srv := statsServer(t, map[int]string{
		2025: "player_id,player_display_name,week,position,receptions\n00-003,Test TE,1,TE,4\n",
	})

	ing := NewIngester(NewClient(srv.URL), scoring.NewEngine(nil), nil, t.TempDir(), nil)

	before := ing.CheckFreshness(24 * time.Hour)
	assert.False(t, before.Exists)
	assert.True(t, before.NeedsUpdate)

	path, err := ing.EnsureFresh(context.Background(), []int{2025}, 24*time.Hour, false)
	require.NoError(t, err)
	assert.Equal(t, ing.DatasetPath(), path)

	after := ing.CheckFreshness(24 * time.Hour)
	assert.True(t, after.Exists)
	assert.True(t, after.Fresh)
	assert.False(t, after.NeedsUpdate)

	// a fresh dataset short-circuits the next EnsureFresh
	srv.Close()
	_, err = ing.EnsureFresh(context.Background(), []int{2025}, 24*time.Hour, false)
	assert.NoError(t, err)
}
