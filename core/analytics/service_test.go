package analytics

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"alujo/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRepo serves a fixed snapshot of rows, the way a single request sees
// the database.
type fakeRepo struct {
	artistPlays int64
	artistLikes int64
	plays       []PlayRow
	trackStats  []TrackStat
	trackPlays  int64
	trackLikes  int64
	userPlays   int64
	likes       []LikeRow
	events      []model.PlayEvent
}

func (f *fakeRepo) CountPlaysByArtist(ctx context.Context, artistID string) (int64, error) {
	return f.artistPlays, nil
}

func (f *fakeRepo) CountLikesByArtist(ctx context.Context, artistID string) (int64, error) {
	return f.artistLikes, nil
}

func (f *fakeRepo) PlaysByArtist(ctx context.Context, artistID string) ([]PlayRow, error) {
	return f.plays, nil
}

func (f *fakeRepo) TrackStatsByArtist(ctx context.Context, artistID string) ([]TrackStat, error) {
	return f.trackStats, nil
}

func (f *fakeRepo) CountPlaysByTrack(ctx context.Context, trackID string) (int64, error) {
	return f.trackPlays, nil
}

func (f *fakeRepo) CountLikesByTrack(ctx context.Context, trackID string) (int64, error) {
	return f.trackLikes, nil
}

func (f *fakeRepo) PlaysByTrackSince(ctx context.Context, trackID string, since time.Time) ([]PlayRow, error) {
	var out []PlayRow
	for _, p := range f.plays {
		if !p.StartedAt.Before(since) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeRepo) CountPlaysByUser(ctx context.Context, userID string) (int64, error) {
	return f.userPlays, nil
}

func (f *fakeRepo) PlaysByUser(ctx context.Context, userID string) ([]PlayRow, error) {
	return f.plays, nil
}

func (f *fakeRepo) LikesByUser(ctx context.Context, userID string) ([]LikeRow, error) {
	return f.likes, nil
}

func (f *fakeRepo) HistoryByUser(ctx context.Context, userID string, limit, offset int) ([]model.PlayEvent, error) {
	if offset >= len(f.events) {
		return nil, nil
	}
	end := offset + limit
	if end > len(f.events) {
		end = len(f.events)
	}
	return f.events[offset:end], nil
}

func (f *fakeRepo) AllPlaysByUser(ctx context.Context, userID string) ([]model.PlayEvent, error) {
	return f.events, nil
}

func fixedClock() time.Time {
	return time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
}

func TestArtistSummaryEndToEnd(t *testing.T) {
	// 4 plays on one track from 3 distinct users, 2 likes.
	day := time.Date(2024, 6, 10, 8, 0, 0, 0, time.UTC)
	repo := &fakeRepo{
		artistPlays: 4,
		artistLikes: 2,
		plays: []PlayRow{
			{TrackID: "t1", UserID: "u1", Country: strptr("NG"), StartedAt: day},
			{TrackID: "t1", UserID: "u2", Country: strptr("NG"), StartedAt: day},
			{TrackID: "t1", UserID: "u3", Country: strptr("US"), StartedAt: day.Add(24 * time.Hour)},
			{TrackID: "t1", UserID: "u1", Country: strptr("NG"), StartedAt: day.Add(24 * time.Hour)},
		},
		trackStats: []TrackStat{{ID: "t1", Title: "One", Plays: 4, Likes: 2}},
	}
	svc := NewService(repo).WithClock(fixedClock)

	report, err := svc.ArtistSummary(context.Background(), "artist-1")
	require.NoError(t, err)

	assert.Equal(t, SummaryCounts{TotalPlays: 4, UniqueListeners: 3, TotalLikes: 2}, report.Summary)
	assert.Equal(t, map[string]int{"2024-06-10": 2, "2024-06-11": 2}, report.DailyPlays)
	assert.Equal(t, map[string]int{"NG": 3, "US": 1}, report.Demographics)
	require.Len(t, report.TopTracks, 1)
	assert.Equal(t, TrackStat{ID: "t1", Title: "One", Plays: 4, Likes: 2}, report.TopTracks[0])
	assert.Equal(t, fixedClock().AddDate(0, 0, -7), report.TimeRange.SevenDays)
	assert.Equal(t, fixedClock().AddDate(0, 0, -30), report.TimeRange.ThirtyDays)
}

func TestArtistSummaryEmptySnapshot(t *testing.T) {
	svc := NewService(&fakeRepo{}).WithClock(fixedClock)

	report, err := svc.ArtistSummary(context.Background(), "artist-1")
	require.NoError(t, err)

	assert.Equal(t, SummaryCounts{}, report.Summary)
	assert.Empty(t, report.DailyPlays)
	assert.Empty(t, report.Demographics)
	assert.Empty(t, report.TopTracks)
}

func TestArtistSummaryIdempotent(t *testing.T) {
	repo := &fakeRepo{
		artistPlays: 3,
		artistLikes: 1,
		plays: []PlayRow{
			{TrackID: "t1", UserID: "u1", Country: strptr("NG"), StartedAt: fixedClock()},
			{TrackID: "t2", UserID: "u2", StartedAt: fixedClock()},
			{TrackID: "t1", UserID: "u1", Country: strptr("GH"), StartedAt: fixedClock().Add(-48 * time.Hour)},
		},
		trackStats: []TrackStat{
			{ID: "t1", Title: "One", Plays: 2},
			{ID: "t2", Title: "Two", Plays: 1},
		},
	}
	svc := NewService(repo).WithClock(fixedClock)

	first, err := svc.ArtistSummary(context.Background(), "artist-1")
	require.NoError(t, err)
	second, err := svc.ArtistSummary(context.Background(), "artist-1")
	require.NoError(t, err)

	// Identical snapshot plus identical clock must yield byte-identical output.
	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestTrackSummaryWindowsLast30Days(t *testing.T) {
	old := fixedClock().AddDate(0, 0, -40)
	recent := fixedClock().AddDate(0, 0, -5)
	repo := &fakeRepo{
		trackPlays: 10,
		trackLikes: 4,
		plays: []PlayRow{
			{TrackID: "t1", UserID: "u1", Country: strptr("NG"), StartedAt: old},
			{TrackID: "t1", UserID: "u2", Country: strptr("US"), StartedAt: recent},
		},
	}
	svc := NewService(repo).WithClock(fixedClock)

	report, err := svc.TrackSummary(context.Background(), "t1")
	require.NoError(t, err)

	// Totals span all time; the histogram covers the last 30 days only.
	assert.Equal(t, int64(10), report.Plays)
	assert.Equal(t, int64(4), report.Likes)
	assert.Equal(t, map[string]int{recent.Format("2006-01-02"): 1}, report.PlayHistory)
	assert.Equal(t, map[string]int{"US": 1}, report.ListenerLocations)
}

func TestListenerSummary(t *testing.T) {
	repo := &fakeRepo{
		userPlays: 5,
		plays: []PlayRow{
			{TrackID: "t1", ArtistID: "a1", ArtistStageName: "Burna", Genre: strptr("afrobeats"), UserID: "u1", StartedAt: fixedClock()},
			{TrackID: "t2", ArtistID: "a1", ArtistStageName: "Burna", Genre: strptr("afrobeats"), UserID: "u1", StartedAt: fixedClock()},
			{TrackID: "t3", ArtistID: "a2", ArtistStageName: "Asa", Genre: nil, UserID: "u1", StartedAt: fixedClock()},
			{TrackID: "t1", ArtistID: "a1", ArtistStageName: "Burna", Genre: strptr("afrobeats"), UserID: "u1", StartedAt: fixedClock()},
			{TrackID: "t4", ArtistID: "a3", ArtistStageName: "Wizkid", Genre: strptr("pop"), UserID: "u1", StartedAt: fixedClock()},
		},
	}
	svc := NewService(repo).WithClock(fixedClock)

	report, err := svc.ListenerSummary(context.Background(), "u1")
	require.NoError(t, err)

	assert.Equal(t, int64(5), report.TotalPlays)
	assert.Equal(t, 3, report.ArtistsDiscovered)
	assert.Equal(t, 4, report.UniqueTracks)

	require.NotEmpty(t, report.TopArtists)
	assert.Equal(t, model.ArtistRef{ID: "a1", StageName: "Burna"}, report.TopArtists[0].Artist)
	assert.Equal(t, 3, report.TopArtists[0].Count)

	// Plays-based listener genre ranking buckets missing genres as Unknown,
	// unlike the likes-based ranking used by discovery.
	require.Len(t, report.TopGenres, 3)
	assert.Equal(t, GenreCount{Genre: "afrobeats", Count: 3}, report.TopGenres[0])
	assert.Contains(t, report.TopGenres, GenreCount{Genre: "Unknown", Count: 1})
}

func TestTopGenresForUser(t *testing.T) {
	repo := &fakeRepo{
		likes: []LikeRow{
			{TrackID: "t1", Genre: strptr("afrobeats")},
			{TrackID: "t2", Genre: nil},
			{TrackID: "t3", Genre: strptr("highlife")},
			{TrackID: "t4", Genre: strptr("afrobeats")},
		},
	}
	svc := NewService(repo)

	genres, err := svc.TopGenresForUser(context.Background(), "u1", 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"afrobeats", "highlife"}, genres)
}

func TestHistoryPagination(t *testing.T) {
	repo := &fakeRepo{
		events: []model.PlayEvent{{ID: "e1"}, {ID: "e2"}, {ID: "e3"}},
	}
	svc := NewService(repo)

	page, err := svc.History(context.Background(), "u1", 2, 1)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "e2", page[0].ID)
}
