package analytics

import (
	"context"
	"time"

	"alujo/apperr"
	"alujo/model"
)

const (
	topTracksLimit  = 5
	topArtistsLimit = 5
	topGenresLimit  = 5

	// countryFallback buckets plays whose listener has no country on file.
	countryFallback = "Unknown"
)

// Service computes the analytics reports. It holds no request state; the
// injectable clock keeps reports a pure function of rows plus time.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService builds the analytics service over the given row source.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// WithClock replaces the service clock. Test hook.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// ArtistSummary computes the artist-wide report: totals, daily play
// histogram, country demographics and the top five tracks by play count.
func (s *Service) ArtistSummary(ctx context.Context, artistID string) (*ArtistSummary, error) {
	totalPlays, err := s.repo.CountPlaysByArtist(ctx, artistID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	totalLikes, err := s.repo.CountLikesByArtist(ctx, artistID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	plays, err := s.repo.PlaysByArtist(ctx, artistID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	trackStats, err := s.repo.TrackStatsByArtist(ctx, artistID)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	now := s.now()
	return &ArtistSummary{
		Summary: SummaryCounts{
			TotalPlays:      totalPlays,
			UniqueListeners: CountUnique(plays, func(p PlayRow) string { return p.UserID }),
			TotalLikes:      totalLikes,
		},
		DailyPlays: HistogramByDay(plays, func(p PlayRow) time.Time { return p.StartedAt }),
		TopTracks: TopN(trackStats, func(t TrackStat) int64 { return t.Plays }, topTracksLimit),
		Demographics: HistogramByCategory(plays, func(p PlayRow) (string, bool) {
			if p.Country == nil || *p.Country == "" {
				return "", false
			}
			return *p.Country, true
		}, countryFallback),
		TimeRange: TimeRange{
			SevenDays:  now.AddDate(0, 0, -7),
			ThirtyDays: now.AddDate(0, 0, -30),
		},
	}, nil
}

// TrackSummary computes the single-track report. Totals cover all time; the
// histogram and locations cover the last 30 days only.
func (s *Service) TrackSummary(ctx context.Context, trackID string) (*TrackSummary, error) {
	plays, err := s.repo.CountPlaysByTrack(ctx, trackID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	likes, err := s.repo.CountLikesByTrack(ctx, trackID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	recent, err := s.repo.PlaysByTrackSince(ctx, trackID, s.now().AddDate(0, 0, -30))
	if err != nil {
		return nil, apperr.Internal(err)
	}

	return &TrackSummary{
		Plays:       plays,
		Likes:       likes,
		PlayHistory: HistogramByDay(recent, func(p PlayRow) time.Time { return p.StartedAt }),
		ListenerLocations: HistogramByCategory(recent, func(p PlayRow) (string, bool) {
			if p.Country == nil || *p.Country == "" {
				return "", false
			}
			return *p.Country, true
		}, countryFallback),
	}, nil
}

// ListenerSummary computes the per-listener report. Top genres here come
// from play rows with the "Unknown" fallback; the likes-based ranking that
// excludes missing genres is TopGenresForUser, used by discovery.
func (s *Service) ListenerSummary(ctx context.Context, userID string) (*ListenerSummary, error) {
	totalPlays, err := s.repo.CountPlaysByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	plays, err := s.repo.PlaysByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	artistCounts := CountByKey(plays, func(p PlayRow) model.ArtistRef {
		return model.ArtistRef{ID: p.ArtistID, StageName: p.ArtistStageName}
	})
	topArtists := make([]ArtistPlayCount, 0, topArtistsLimit)
	for _, c := range TopN(artistCounts, func(c Counted[model.ArtistRef]) int64 { return int64(c.Count) }, topArtistsLimit) {
		topArtists = append(topArtists, ArtistPlayCount{Artist: c.Key, Count: c.Count})
	}

	genreCounts := CountByKey(plays, func(p PlayRow) string {
		if p.Genre == nil || *p.Genre == "" {
			return countryFallback
		}
		return *p.Genre
	})
	topGenres := make([]GenreCount, 0, topGenresLimit)
	for _, c := range TopN(genreCounts, func(c Counted[string]) int64 { return int64(c.Count) }, topGenresLimit) {
		topGenres = append(topGenres, GenreCount{Genre: c.Key, Count: c.Count})
	}

	return &ListenerSummary{
		TotalPlays:        totalPlays,
		ArtistsDiscovered: CountUnique(plays, func(p PlayRow) string { return p.ArtistID }),
		UniqueTracks:      CountUnique(plays, func(p PlayRow) string { return p.TrackID }),
		TopArtists:        topArtists,
		TopGenres:         topGenres,
	}, nil
}

// TopGenresForUser ranks the genres of tracks the user has liked, most-liked
// first, at most n entries. Tracks without a genre are excluded. Used by
// discovery to narrow personalized recommendations.
func (s *Service) TopGenresForUser(ctx context.Context, userID string, n int) ([]string, error) {
	likes, err := s.repo.LikesByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	ranked := RankGenresByLikes(likes, n)
	genres := make([]string, 0, len(ranked))
	for _, g := range ranked {
		genres = append(genres, g.Genre)
	}
	return genres, nil
}

// History returns the user's play history, newest first, paginated, with
// track and artist nested.
func (s *Service) History(ctx context.Context, userID string, limit, offset int) ([]model.PlayEvent, error) {
	events, err := s.repo.HistoryByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return events, nil
}

// Export returns every play event for the user with nested track and artist,
// serialized verbatim for download. No aggregation.
func (s *Service) Export(ctx context.Context, userID string) ([]model.PlayEvent, error) {
	events, err := s.repo.AllPlaysByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return events, nil
}
