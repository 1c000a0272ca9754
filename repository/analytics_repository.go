package repository

import (
	"context"
	"fmt"
	"time"

	"alujo/core/analytics"
	"alujo/model"

	"gorm.io/gorm"
)

// playRowColumns selects play events joined with the track, artist and
// listener fields the aggregator consumes.
const playRowColumns = "play_events.track_id, tracks.title AS track_title, tracks.genre, " +
	"tracks.artist_id, artist_profiles.stage_name AS artist_stage_name, " +
	"play_events.user_id, users.country, play_events.started_at"

type gormAnalyticsRepository struct {
	db *gorm.DB
}

// NewAnalyticsRepository creates the GORM-backed row source for the
// analytics service.
func NewAnalyticsRepository(db *gorm.DB) analytics.Repository {
	return &gormAnalyticsRepository{db: db}
}

func (r *gormAnalyticsRepository) playRows(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Table("play_events").
		Select(playRowColumns).
		Joins("JOIN tracks ON tracks.id = play_events.track_id").
		Joins("JOIN artist_profiles ON artist_profiles.id = tracks.artist_id").
		Joins("JOIN users ON users.id = play_events.user_id")
}

func (r *gormAnalyticsRepository) CountPlaysByArtist(ctx context.Context, artistID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.PlayEvent{}).
		Joins("JOIN tracks ON tracks.id = play_events.track_id").
		Where("tracks.artist_id = ?", artistID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count artist plays: %w", err)
	}
	return count, nil
}

func (r *gormAnalyticsRepository) CountLikesByArtist(ctx context.Context, artistID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Like{}).
		Joins("JOIN tracks ON tracks.id = likes.track_id").
		Where("tracks.artist_id = ?", artistID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count artist likes: %w", err)
	}
	return count, nil
}

func (r *gormAnalyticsRepository) PlaysByArtist(ctx context.Context, artistID string) ([]analytics.PlayRow, error) {
	var rows []analytics.PlayRow
	err := r.playRows(ctx).
		Where("tracks.artist_id = ?", artistID).
		Order("play_events.started_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load artist play rows: %w", err)
	}
	return rows, nil
}

func (r *gormAnalyticsRepository) TrackStatsByArtist(ctx context.Context, artistID string) ([]analytics.TrackStat, error) {
	var stats []analytics.TrackStat
	err := r.db.WithContext(ctx).Table("tracks").
		Select("tracks.id, tracks.title, "+
			"(SELECT COUNT(*) FROM play_events WHERE play_events.track_id = tracks.id) AS plays, "+
			"(SELECT COUNT(*) FROM likes WHERE likes.track_id = tracks.id) AS likes").
		Where("tracks.artist_id = ?", artistID).
		Order("tracks.created_at DESC").
		Scan(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load track stats: %w", err)
	}
	return stats, nil
}

func (r *gormAnalyticsRepository) CountPlaysByTrack(ctx context.Context, trackID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.PlayEvent{}).
		Where("track_id = ?", trackID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count track plays: %w", err)
	}
	return count, nil
}

func (r *gormAnalyticsRepository) CountLikesByTrack(ctx context.Context, trackID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Like{}).
		Where("track_id = ?", trackID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count track likes: %w", err)
	}
	return count, nil
}

func (r *gormAnalyticsRepository) PlaysByTrackSince(ctx context.Context, trackID string, since time.Time) ([]analytics.PlayRow, error) {
	var rows []analytics.PlayRow
	err := r.playRows(ctx).
		Where("play_events.track_id = ? AND play_events.started_at >= ?", trackID, since).
		Order("play_events.started_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load track play rows: %w", err)
	}
	return rows, nil
}

func (r *gormAnalyticsRepository) CountPlaysByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.PlayEvent{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count user plays: %w", err)
	}
	return count, nil
}

func (r *gormAnalyticsRepository) PlaysByUser(ctx context.Context, userID string) ([]analytics.PlayRow, error) {
	var rows []analytics.PlayRow
	err := r.playRows(ctx).
		Where("play_events.user_id = ?", userID).
		Order("play_events.started_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load user play rows: %w", err)
	}
	return rows, nil
}

func (r *gormAnalyticsRepository) LikesByUser(ctx context.Context, userID string) ([]analytics.LikeRow, error) {
	var rows []analytics.LikeRow
	err := r.db.WithContext(ctx).Table("likes").
		Select("likes.user_id, likes.track_id, tracks.genre").
		Joins("JOIN tracks ON tracks.id = likes.track_id").
		Where("likes.user_id = ?", userID).
		Order("likes.created_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load user like rows: %w", err)
	}
	return rows, nil
}

func (r *gormAnalyticsRepository) HistoryByUser(ctx context.Context, userID string, limit, offset int) ([]model.PlayEvent, error) {
	if limit <= 0 {
		limit = 50
	}

	var events []model.PlayEvent
	err := r.db.WithContext(ctx).
		Preload("Track").
		Preload("Track.Artist").
		Where("user_id = ?", userID).
		Order("started_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load play history: %w", err)
	}
	return events, nil
}

func (r *gormAnalyticsRepository) AllPlaysByUser(ctx context.Context, userID string) ([]model.PlayEvent, error) {
	var events []model.PlayEvent
	err := r.db.WithContext(ctx).
		Preload("Track").
		Preload("Track.Artist").
		Where("user_id = ?", userID).
		Order("started_at ASC").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to export play events: %w", err)
	}
	return events, nil
}
