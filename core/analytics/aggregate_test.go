package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strptr(s string) *string { return &s }

func playAt(user, day string) PlayRow {
	t, _ := time.Parse("2006-01-02", day)
	return PlayRow{UserID: user, StartedAt: t}
}

func TestCountUniqueDistinctKeys(t *testing.T) {
	// 5 events from 2 distinct users must count 2, never 5.
	events := []PlayRow{
		{UserID: "a"}, {UserID: "a"}, {UserID: "b"}, {UserID: "a"}, {UserID: "b"},
	}
	assert.Equal(t, 2, CountUnique(events, func(p PlayRow) string { return p.UserID }))
}

func TestCountUniqueEmpty(t *testing.T) {
	assert.Equal(t, 0, CountUnique(nil, func(p PlayRow) string { return p.UserID }))
}

func TestHistogramByDay(t *testing.T) {
	events := []PlayRow{
		playAt("a", "2024-01-01"),
		playAt("b", "2024-01-01"),
		playAt("c", "2024-01-01"),
		playAt("a", "2024-01-02"),
	}
	hist := HistogramByDay(events, func(p PlayRow) time.Time { return p.StartedAt })

	assert.Equal(t, map[string]int{"2024-01-01": 3, "2024-01-02": 1}, hist)
	// A day with zero events is absent, not zero.
	_, present := hist["2024-01-03"]
	assert.False(t, present)
}

func TestHistogramByDayEmpty(t *testing.T) {
	hist := HistogramByDay(nil, func(p PlayRow) time.Time { return p.StartedAt })
	assert.Empty(t, hist)
}

func TestHistogramByCategoryFallback(t *testing.T) {
	events := []PlayRow{
		{Country: strptr("NG")},
		{Country: strptr("NG")},
		{Country: strptr("US")},
		{Country: nil},
	}
	hist := HistogramByCategory(events, func(p PlayRow) (string, bool) {
		if p.Country == nil {
			return "", false
		}
		return *p.Country, true
	}, "Unknown")

	assert.Equal(t, map[string]int{"NG": 2, "US": 1, "Unknown": 1}, hist)
}

func TestHistogramByCategoryNoCaseNormalization(t *testing.T) {
	events := []PlayRow{{Country: strptr("ng")}, {Country: strptr("NG")}}
	hist := HistogramByCategory(events, func(p PlayRow) (string, bool) {
		return *p.Country, true
	}, "Unknown")
	assert.Equal(t, map[string]int{"ng": 1, "NG": 1}, hist)
}

func TestTopNTiesKeepInputOrder(t *testing.T) {
	stats := []TrackStat{
		{ID: "t1", Plays: 10},
		{ID: "t2", Plays: 3},
		{ID: "t3", Plays: 10},
		{ID: "t4", Plays: 7},
	}
	top := TopN(stats, func(t TrackStat) int64 { return t.Plays }, 3)

	require.Len(t, top, 3)
	// t1 and t3 tie on 10; t1 came first in the input and must stay first.
	assert.Equal(t, "t1", top[0].ID)
	assert.Equal(t, "t3", top[1].ID)
	assert.Equal(t, "t4", top[2].ID)
}

func TestTopNFewerThanN(t *testing.T) {
	stats := []TrackStat{{ID: "t1", Plays: 1}, {ID: "t2", Plays: 2}}
	top := TopN(stats, func(t TrackStat) int64 { return t.Plays }, 5)
	assert.Len(t, top, 2)
}

func TestTopNDoesNotMutateInput(t *testing.T) {
	stats := []TrackStat{{ID: "t1", Plays: 1}, {ID: "t2", Plays: 9}}
	TopN(stats, func(t TrackStat) int64 { return t.Plays }, 1)
	assert.Equal(t, "t1", stats[0].ID)
}

func TestCountByKeyFirstAppearanceOrder(t *testing.T) {
	events := []PlayRow{
		{TrackID: "x"}, {TrackID: "y"}, {TrackID: "x"}, {TrackID: "z"}, {TrackID: "x"},
	}
	counts := CountByKey(events, func(p PlayRow) string { return p.TrackID })

	require.Len(t, counts, 3)
	assert.Equal(t, Counted[string]{Key: "x", Count: 3}, counts[0])
	assert.Equal(t, Counted[string]{Key: "y", Count: 1}, counts[1])
	assert.Equal(t, Counted[string]{Key: "z", Count: 1}, counts[2])
}

func TestRankGenresByLikesExcludesNullGenres(t *testing.T) {
	// Likes on tracks without a genre drop out entirely; there is no
	// "Unknown" bucket in genre rankings, unlike country histograms.
	likes := []LikeRow{
		{TrackID: "t1", Genre: strptr("afrobeats")},
		{TrackID: "t2", Genre: nil},
		{TrackID: "t3", Genre: strptr("afrobeats")},
		{TrackID: "t4", Genre: strptr("highlife")},
		{TrackID: "t5", Genre: strptr("")},
	}
	ranked := RankGenresByLikes(likes, 3)

	require.Len(t, ranked, 2)
	assert.Equal(t, GenreCount{Genre: "afrobeats", Count: 2}, ranked[0])
	assert.Equal(t, GenreCount{Genre: "highlife", Count: 1}, ranked[1])
}

func TestRankGenresByLikesEmpty(t *testing.T) {
	assert.Empty(t, RankGenresByLikes(nil, 3))
}
