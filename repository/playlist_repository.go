package repository

import (
	"context"
	"errors"
	"fmt"

	"alujo/model"

	"gorm.io/gorm"
)

// PlaylistRepository defines playlist data operations.
type PlaylistRepository interface {
	Create(ctx context.Context, playlist *model.Playlist) error
	// GetByID loads the playlist with owner and items in playlist order,
	// each item carrying its track and artist.
	GetByID(ctx context.Context, id string) (*model.Playlist, error)
	ListByOwner(ctx context.Context, ownerID string, includePrivate bool) ([]model.Playlist, error)
	Update(ctx context.Context, playlist *model.Playlist) error
	Delete(ctx context.Context, id string) error
	// AddTrack appends the track at the end of the playlist.
	AddTrack(ctx context.Context, playlistID, trackID string) (*model.PlaylistTrack, error)
	RemoveTrack(ctx context.Context, playlistID, trackID string) error
}

type gormPlaylistRepository struct {
	db *gorm.DB
}

// NewPlaylistRepository creates a GORM-backed PlaylistRepository.
func NewPlaylistRepository(db *gorm.DB) PlaylistRepository {
	return &gormPlaylistRepository{db: db}
}

func (r *gormPlaylistRepository) Create(ctx context.Context, playlist *model.Playlist) error {
	if err := r.db.WithContext(ctx).Create(playlist).Error; err != nil {
		return fmt.Errorf("failed to create playlist: %w", err)
	}
	return nil
}

func (r *gormPlaylistRepository) GetByID(ctx context.Context, id string) (*model.Playlist, error) {
	playlist := &model.Playlist{}
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Items.Track").
		Preload("Items.Track.Artist").
		First(playlist, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query playlist %s: %w", id, err)
	}
	return playlist, nil
}

func (r *gormPlaylistRepository) ListByOwner(ctx context.Context, ownerID string, includePrivate bool) ([]model.Playlist, error) {
	q := r.db.WithContext(ctx).Model(&model.Playlist{}).
		Select("playlists.*, (SELECT COUNT(*) FROM playlist_tracks WHERE playlist_tracks.playlist_id = playlists.id) AS item_count").
		Where("playlists.owner_id = ?", ownerID)
	if !includePrivate {
		q = q.Where("playlists.is_public = ?", true)
	}

	var playlists []model.Playlist
	if err := q.Order("playlists.created_at DESC").Find(&playlists).Error; err != nil {
		return nil, fmt.Errorf("failed to list playlists for user %s: %w", ownerID, err)
	}
	return playlists, nil
}

func (r *gormPlaylistRepository) Update(ctx context.Context, playlist *model.Playlist) error {
	err := r.db.WithContext(ctx).Model(playlist).
		Select("Title", "IsPublic").
		Updates(playlist).Error
	if err != nil {
		return fmt.Errorf("failed to update playlist %s: %w", playlist.ID, err)
	}
	return nil
}

func (r *gormPlaylistRepository) Delete(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("playlist_id = ?", id).Delete(&model.PlaylistTrack{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Playlist{}, "id = ?", id).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete playlist %s: %w", id, err)
	}
	return nil
}

func (r *gormPlaylistRepository) AddTrack(ctx context.Context, playlistID, trackID string) (*model.PlaylistTrack, error) {
	item := &model.PlaylistTrack{PlaylistID: playlistID, TrackID: trackID}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var maxOrder *int
		err := tx.Model(&model.PlaylistTrack{}).
			Where("playlist_id = ?", playlistID).
			Select("MAX(position)").
			Scan(&maxOrder).Error
		if err != nil {
			return err
		}

		if maxOrder != nil {
			item.Order = *maxOrder + 1
		}

		if err := tx.Create(item).Error; err != nil {
			return err
		}
		return tx.Preload("Track").First(item, "id = ?", item.ID).Error
	})
	if err != nil {
		if isDuplicateErr(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("failed to add track %s to playlist %s: %w", trackID, playlistID, err)
	}
	return item, nil
}

func (r *gormPlaylistRepository) RemoveTrack(ctx context.Context, playlistID, trackID string) error {
	err := r.db.WithContext(ctx).
		Where("playlist_id = ? AND track_id = ?", playlistID, trackID).
		Delete(&model.PlaylistTrack{}).Error
	if err != nil {
		return fmt.Errorf("failed to remove track %s from playlist %s: %w", trackID, playlistID, err)
	}
	return nil
}
