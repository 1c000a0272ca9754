// Package discover serves the public discovery feeds: editor picks,
// trending, new releases, genre feeds and personalized recommendations.
package discover

import (
	"context"
	"time"

	"alujo/apperr"
	"alujo/cache"
	"alujo/model"
	"alujo/repository"
)

const (
	feedLimit = 20

	// trendingWindow is how far back a play still counts as trending.
	trendingWindow = 7 * 24 * time.Hour

	// recommendGenres is how many liked genres narrow the recommended feed.
	recommendGenres = 3
)

// GenreRanker yields a user's most-liked genres. Satisfied by the analytics
// service.
type GenreRanker interface {
	TopGenresForUser(ctx context.Context, userID string, n int) ([]string, error)
}

// Service computes the discovery feeds.
type Service struct {
	repo   repository.DiscoverRepository
	genres GenreRanker
	cache  *cache.FeedCache
	now    func() time.Time
}

// NewService builds the discovery service. cache may be nil, which disables
// caching.
func NewService(repo repository.DiscoverRepository, genres GenreRanker, feedCache *cache.FeedCache) *Service {
	return &Service{repo: repo, genres: genres, cache: feedCache, now: time.Now}
}

// WithClock replaces the service clock. Test hook.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// EditorPicks returns the curated feed.
func (s *Service) EditorPicks(ctx context.Context) ([]model.Track, error) {
	tracks, err := s.repo.EditorPicks(ctx, feedLimit)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return tracks, nil
}

// Trending returns public tracks played within the trending window, most
// played first. Served from cache when fresh.
func (s *Service) Trending(ctx context.Context) ([]model.Track, error) {
	var cached []model.Track
	if s.cache.Get(ctx, "trending", &cached) {
		return cached, nil
	}

	tracks, err := s.repo.Trending(ctx, s.now().Add(-trendingWindow), feedLimit)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	s.cache.Set(ctx, "trending", tracks)
	return tracks, nil
}

// NewReleases returns the newest public tracks. Served from cache when fresh.
func (s *Service) NewReleases(ctx context.Context) ([]model.Track, error) {
	var cached []model.Track
	if s.cache.Get(ctx, "new-releases", &cached) {
		return cached, nil
	}

	tracks, err := s.repo.NewReleases(ctx, feedLimit)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	s.cache.Set(ctx, "new-releases", tracks)
	return tracks, nil
}

// Recommended returns the most played public tracks, narrowed to the
// caller's top liked genres when a user is known. Guests get the unfiltered
// feed.
func (s *Service) Recommended(ctx context.Context, userID string) ([]model.Track, error) {
	var genres []string
	if userID != "" {
		ranked, err := s.genres.TopGenresForUser(ctx, userID, recommendGenres)
		if err != nil {
			return nil, err
		}
		genres = ranked
	}

	tracks, err := s.repo.MostPlayed(ctx, genres, feedLimit)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return tracks, nil
}

// GenreFeed returns the most played public tracks of one genre.
func (s *Service) GenreFeed(ctx context.Context, genre string) ([]model.Track, error) {
	tracks, err := s.repo.GenreFeed(ctx, genre, feedLimit)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return tracks, nil
}
