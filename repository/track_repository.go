package repository

import (
	"context"
	"errors"
	"fmt"

	"alujo/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// countedTrackColumns selects tracks together with their derived play and
// like counts. The counts are never stored.
const countedTrackColumns = "tracks.*, " +
	"(SELECT COUNT(*) FROM play_events WHERE play_events.track_id = tracks.id) AS play_count, " +
	"(SELECT COUNT(*) FROM likes WHERE likes.track_id = tracks.id) AS like_count"

// TrackFilter narrows a catalog listing. Zero values are ignored.
type TrackFilter struct {
	ArtistID string
	AlbumID  string
	Genre    string
	Search   string
	Limit    int
	Offset   int
}

// TrackRepository defines track catalog data operations.
type TrackRepository interface {
	Create(ctx context.Context, track *model.Track) error
	GetByID(ctx context.Context, id string) (*model.Track, error)
	List(ctx context.Context, filter TrackFilter) ([]model.Track, error)
	ListByArtist(ctx context.Context, artistID string, limit, offset int) ([]model.Track, error)
	Update(ctx context.Context, track *model.Track) error
	Delete(ctx context.Context, id string) error
	// ToggleLike likes the track if not yet liked by the user, unlikes
	// otherwise. Returns the resulting state.
	ToggleLike(ctx context.Context, trackID, userID string) (bool, error)
	// LogPlay records one playback start.
	LogPlay(ctx context.Context, trackID, userID string) error
	UpsertLyrics(ctx context.Context, trackID, content string) (*model.Lyrics, error)
	GetLyrics(ctx context.Context, trackID string) (*model.Lyrics, error)
}

type gormTrackRepository struct {
	db *gorm.DB
}

// NewTrackRepository creates a GORM-backed TrackRepository.
func NewTrackRepository(db *gorm.DB) TrackRepository {
	return &gormTrackRepository{db: db}
}

func (r *gormTrackRepository) Create(ctx context.Context, track *model.Track) error {
	if err := r.db.WithContext(ctx).Create(track).Error; err != nil {
		return fmt.Errorf("failed to create track: %w", err)
	}
	return nil
}

func (r *gormTrackRepository) GetByID(ctx context.Context, id string) (*model.Track, error) {
	track := &model.Track{}
	err := r.db.WithContext(ctx).
		Select(countedTrackColumns).
		Preload("Artist").
		First(track, "tracks.id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query track %s: %w", id, err)
	}
	return track, nil
}

func (r *gormTrackRepository) List(ctx context.Context, filter TrackFilter) ([]model.Track, error) {
	q := r.db.WithContext(ctx).Model(&model.Track{}).
		Select(countedTrackColumns).
		Preload("Artist").
		Where("tracks.visibility = ?", model.VisibilityPublic)

	if filter.ArtistID != "" {
		q = q.Where("tracks.artist_id = ?", filter.ArtistID)
	}
	if filter.AlbumID != "" {
		q = q.Where("tracks.album_id = ?", filter.AlbumID)
	}
	if filter.Genre != "" {
		q = q.Where("tracks.genre = ?", filter.Genre)
	}
	if filter.Search != "" {
		q = q.Where("tracks.title LIKE ?", "%"+filter.Search+"%")
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}

	var tracks []model.Track
	err := q.Order("tracks.created_at DESC").
		Limit(limit).
		Offset(filter.Offset).
		Find(&tracks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tracks: %w", err)
	}
	return tracks, nil
}

func (r *gormTrackRepository) ListByArtist(ctx context.Context, artistID string, limit, offset int) ([]model.Track, error) {
	return r.List(ctx, TrackFilter{ArtistID: artistID, Limit: limit, Offset: offset})
}

func (r *gormTrackRepository) Update(ctx context.Context, track *model.Track) error {
	err := r.db.WithContext(ctx).Model(track).
		Select("Title", "Genre", "Visibility").
		Updates(track).Error
	if err != nil {
		return fmt.Errorf("failed to update track %s: %w", track.ID, err)
	}
	return nil
}

func (r *gormTrackRepository) Delete(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("track_id = ?", id).Delete(&model.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("track_id = ?", id).Delete(&model.PlayEvent{}).Error; err != nil {
			return err
		}
		if err := tx.Where("track_id = ?", id).Delete(&model.Lyrics{}).Error; err != nil {
			return err
		}
		if err := tx.Where("track_id = ?", id).Delete(&model.PlaylistTrack{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Track{}, "id = ?", id).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete track %s: %w", id, err)
	}
	return nil
}

func (r *gormTrackRepository) ToggleLike(ctx context.Context, trackID, userID string) (bool, error) {
	var liked bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing := &model.Like{}
		err := tx.First(existing, "track_id = ? AND user_id = ?", trackID, userID).Error
		if err == nil {
			liked = false
			return tx.Delete(existing).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		liked = true
		return tx.Create(&model.Like{TrackID: trackID, UserID: userID}).Error
	})
	if err != nil {
		return false, fmt.Errorf("failed to toggle like: %w", err)
	}
	return liked, nil
}

func (r *gormTrackRepository) LogPlay(ctx context.Context, trackID, userID string) error {
	event := &model.PlayEvent{TrackID: trackID, UserID: userID}
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("failed to log play: %w", err)
	}
	return nil
}

func (r *gormTrackRepository) UpsertLyrics(ctx context.Context, trackID, content string) (*model.Lyrics, error) {
	lyrics := &model.Lyrics{TrackID: trackID, Content: content}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "track_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"content", "updated_at"}),
	}).Create(lyrics).Error
	if err != nil {
		return nil, fmt.Errorf("failed to upsert lyrics for track %s: %w", trackID, err)
	}
	return r.GetLyrics(ctx, trackID)
}

func (r *gormTrackRepository) GetLyrics(ctx context.Context, trackID string) (*model.Lyrics, error) {
	lyrics := &model.Lyrics{}
	err := r.db.WithContext(ctx).First(lyrics, "track_id = ?", trackID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query lyrics for track %s: %w", trackID, err)
	}
	return lyrics, nil
}
