package repository

import (
	"context"
	"errors"
	"fmt"

	"alujo/model"

	"gorm.io/gorm"
)

// AlbumRepository defines album data operations.
type AlbumRepository interface {
	Create(ctx context.Context, album *model.Album) error
	// GetByID loads the album with its artist and tracks in track order.
	GetByID(ctx context.Context, id string) (*model.Album, error)
	ListByArtist(ctx context.Context, artistID string, limit, offset int) ([]model.Album, error)
	Update(ctx context.Context, album *model.Album) error
	Delete(ctx context.Context, id string) error
	// AddTrack assigns the track to the album with the next track number.
	AddTrack(ctx context.Context, albumID, trackID string) (*model.Track, error)
	// RemoveTrack detaches the track, clearing album id and track number.
	RemoveTrack(ctx context.Context, albumID, trackID string) error
}

type gormAlbumRepository struct {
	db *gorm.DB
}

// NewAlbumRepository creates a GORM-backed AlbumRepository.
func NewAlbumRepository(db *gorm.DB) AlbumRepository {
	return &gormAlbumRepository{db: db}
}

func (r *gormAlbumRepository) Create(ctx context.Context, album *model.Album) error {
	if err := r.db.WithContext(ctx).Create(album).Error; err != nil {
		return fmt.Errorf("failed to create album: %w", err)
	}
	return nil
}

func (r *gormAlbumRepository) GetByID(ctx context.Context, id string) (*model.Album, error) {
	album := &model.Album{}
	err := r.db.WithContext(ctx).
		Preload("Artist").
		Preload("Tracks", func(db *gorm.DB) *gorm.DB {
			return db.Order("track_number ASC")
		}).
		First(album, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query album %s: %w", id, err)
	}
	return album, nil
}

func (r *gormAlbumRepository) ListByArtist(ctx context.Context, artistID string, limit, offset int) ([]model.Album, error) {
	if limit <= 0 {
		limit = 20
	}

	var albums []model.Album
	err := r.db.WithContext(ctx).Model(&model.Album{}).
		Select("albums.*, (SELECT COUNT(*) FROM tracks WHERE tracks.album_id = albums.id) AS track_count").
		Where("albums.artist_id = ?", artistID).
		Order("albums.released_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&albums).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list albums for artist %s: %w", artistID, err)
	}
	return albums, nil
}

func (r *gormAlbumRepository) Update(ctx context.Context, album *model.Album) error {
	err := r.db.WithContext(ctx).Model(album).
		Select("Title", "CoverURL", "ReleasedAt").
		Updates(album).Error
	if err != nil {
		return fmt.Errorf("failed to update album %s: %w", album.ID, err)
	}
	return nil
}

func (r *gormAlbumRepository) Delete(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Tracks survive their album; they just lose the assignment.
		err := tx.Model(&model.Track{}).
			Where("album_id = ?", id).
			Updates(map[string]interface{}{"album_id": nil, "track_number": nil}).Error
		if err != nil {
			return err
		}
		return tx.Delete(&model.Album{}, "id = ?", id).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete album %s: %w", id, err)
	}
	return nil
}

func (r *gormAlbumRepository) AddTrack(ctx context.Context, albumID, trackID string) (*model.Track, error) {
	var track *model.Track
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var maxNumber *int
		err := tx.Model(&model.Track{}).
			Where("album_id = ?", albumID).
			Select("MAX(track_number)").
			Scan(&maxNumber).Error
		if err != nil {
			return err
		}

		next := 1
		if maxNumber != nil {
			next = *maxNumber + 1
		}

		err = tx.Model(&model.Track{}).
			Where("id = ?", trackID).
			Updates(map[string]interface{}{"album_id": albumID, "track_number": next}).Error
		if err != nil {
			return err
		}

		track = &model.Track{}
		return tx.First(track, "id = ?", trackID).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add track %s to album %s: %w", trackID, albumID, err)
	}
	return track, nil
}

func (r *gormAlbumRepository) RemoveTrack(ctx context.Context, albumID, trackID string) error {
	err := r.db.WithContext(ctx).Model(&model.Track{}).
		Where("id = ? AND album_id = ?", trackID, albumID).
		Updates(map[string]interface{}{"album_id": nil, "track_number": nil}).Error
	if err != nil {
		return fmt.Errorf("failed to remove track %s from album %s: %w", trackID, albumID, err)
	}
	return nil
}
