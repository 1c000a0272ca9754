package discover

import (
	"context"
	"testing"
	"time"

	"alujo/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDiscoverRepo struct {
	editorPicks   []model.Track
	trending      []model.Track
	newReleases   []model.Track
	mostPlayed    []model.Track
	genreFeed     []model.Track
	gotGenres     []string
	trendingSince time.Time
	gotGenre      string
}

func (f *fakeDiscoverRepo) EditorPicks(ctx context.Context, limit int) ([]model.Track, error) {
	return f.editorPicks, nil
}

func (f *fakeDiscoverRepo) Trending(ctx context.Context, since time.Time, limit int) ([]model.Track, error) {
	f.trendingSince = since
	return f.trending, nil
}

func (f *fakeDiscoverRepo) NewReleases(ctx context.Context, limit int) ([]model.Track, error) {
	return f.newReleases, nil
}

func (f *fakeDiscoverRepo) MostPlayed(ctx context.Context, genres []string, limit int) ([]model.Track, error) {
	f.gotGenres = genres
	return f.mostPlayed, nil
}

func (f *fakeDiscoverRepo) GenreFeed(ctx context.Context, genre string, limit int) ([]model.Track, error) {
	f.gotGenre = genre
	return f.genreFeed, nil
}

type fakeGenreRanker struct {
	genres []string
}

func (f *fakeGenreRanker) TopGenresForUser(ctx context.Context, userID string, n int) ([]string, error) {
	return f.genres, nil
}

func TestRecommendedNarrowsByLikedGenres(t *testing.T) {
	repo := &fakeDiscoverRepo{mostPlayed: []model.Track{{ID: "t1"}}}
	svc := NewService(repo, &fakeGenreRanker{genres: []string{"afrobeats", "highlife"}}, nil)

	tracks, err := svc.Recommended(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, tracks, 1)
	assert.Equal(t, []string{"afrobeats", "highlife"}, repo.gotGenres)
}

func TestRecommendedGuestIsUnfiltered(t *testing.T) {
	repo := &fakeDiscoverRepo{mostPlayed: []model.Track{{ID: "t1"}}}
	svc := NewService(repo, &fakeGenreRanker{genres: []string{"afrobeats"}}, nil)

	_, err := svc.Recommended(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, repo.gotGenres)
}

func TestRecommendedNoLikesIsUnfiltered(t *testing.T) {
	// A user with no liked genres gets the unfiltered feed, not an empty one.
	repo := &fakeDiscoverRepo{mostPlayed: []model.Track{{ID: "t1"}}}
	svc := NewService(repo, &fakeGenreRanker{}, nil)

	tracks, err := svc.Recommended(context.Background(), "u1")
	require.NoError(t, err)
	assert.Len(t, tracks, 1)
	assert.Empty(t, repo.gotGenres)
}

func TestTrendingUsesSevenDayWindow(t *testing.T) {
	repo := &fakeDiscoverRepo{trending: []model.Track{{ID: "t1"}}}
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	svc := NewService(repo, &fakeGenreRanker{}, nil).WithClock(func() time.Time { return now })

	_, err := svc.Trending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, now.AddDate(0, 0, -7), repo.trendingSince)
}
