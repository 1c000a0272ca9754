package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"alujo/model"

	"gorm.io/gorm"
)

// DiscoverRepository serves the public discovery feeds. All feeds are
// limited to public tracks.
type DiscoverRepository interface {
	EditorPicks(ctx context.Context, limit int) ([]model.Track, error)
	// Trending returns public tracks with at least one play since the
	// cutoff, ordered by total play count.
	Trending(ctx context.Context, since time.Time, limit int) ([]model.Track, error)
	NewReleases(ctx context.Context, limit int) ([]model.Track, error)
	// MostPlayed returns public tracks by play count, optionally narrowed
	// to a genre set. An empty set means no genre filter.
	MostPlayed(ctx context.Context, genres []string, limit int) ([]model.Track, error)
	GenreFeed(ctx context.Context, genre string, limit int) ([]model.Track, error)
}

type gormDiscoverRepository struct {
	db *gorm.DB
}

// NewDiscoverRepository creates a GORM-backed DiscoverRepository.
func NewDiscoverRepository(db *gorm.DB) DiscoverRepository {
	return &gormDiscoverRepository{db: db}
}

func (r *gormDiscoverRepository) publicTracks(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&model.Track{}).
		Select(countedTrackColumns).
		Preload("Artist").
		Where("tracks.visibility = ?", model.VisibilityPublic)
}

func (r *gormDiscoverRepository) EditorPicks(ctx context.Context, limit int) ([]model.Track, error) {
	var tracks []model.Track
	err := r.publicTracks(ctx).
		Where("tracks.editor_pick = ?", true).
		Order("tracks.created_at DESC").
		Limit(limit).
		Find(&tracks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load editor picks: %w", err)
	}
	return tracks, nil
}

func (r *gormDiscoverRepository) Trending(ctx context.Context, since time.Time, limit int) ([]model.Track, error) {
	var tracks []model.Track
	err := r.publicTracks(ctx).
		Where("EXISTS (SELECT 1 FROM play_events WHERE play_events.track_id = tracks.id AND play_events.started_at >= ?)", since).
		Order("play_count DESC").
		Limit(limit).
		Find(&tracks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load trending tracks: %w", err)
	}
	return tracks, nil
}

func (r *gormDiscoverRepository) NewReleases(ctx context.Context, limit int) ([]model.Track, error) {
	var tracks []model.Track
	err := r.publicTracks(ctx).
		Order("tracks.created_at DESC").
		Limit(limit).
		Find(&tracks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load new releases: %w", err)
	}
	return tracks, nil
}

func (r *gormDiscoverRepository) MostPlayed(ctx context.Context, genres []string, limit int) ([]model.Track, error) {
	q := r.publicTracks(ctx)
	if len(genres) > 0 {
		q = q.Where("tracks.genre IN ?", genres)
	}

	var tracks []model.Track
	err := q.Order("play_count DESC").
		Limit(limit).
		Find(&tracks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load most played tracks: %w", err)
	}
	return tracks, nil
}

func (r *gormDiscoverRepository) GenreFeed(ctx context.Context, genre string, limit int) ([]model.Track, error) {
	var tracks []model.Track
	err := r.publicTracks(ctx).
		Where("tracks.genre = ?", strings.ToLower(genre)).
		Order("play_count DESC").
		Limit(limit).
		Find(&tracks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load genre feed: %w", err)
	}
	return tracks, nil
}
