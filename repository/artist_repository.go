package repository

import (
	"context"
	"errors"
	"fmt"

	"alujo/model"

	"gorm.io/gorm"
)

// ArtistProfileCounts carries the derived counters shown on a public
// artist profile.
type ArtistProfileCounts struct {
	Followers int64 `json:"followers"`
	Tracks    int64 `json:"tracks"`
	Albums    int64 `json:"albums"`
}

// ArtistRepository defines artist profile data operations.
type ArtistRepository interface {
	// CreateProfile inserts the profile and upgrades the owning user's role
	// to ARTIST in one transaction.
	CreateProfile(ctx context.Context, profile *model.ArtistProfile) error
	GetByID(ctx context.Context, id string) (*model.ArtistProfile, error)
	GetByUserID(ctx context.Context, userID string) (*model.ArtistProfile, error)
	Update(ctx context.Context, profile *model.ArtistProfile) error
	Counts(ctx context.Context, artistID string) (*ArtistProfileCounts, error)
	// ToggleFollow follows the artist if the user is not following, and
	// unfollows otherwise. Returns the resulting state.
	ToggleFollow(ctx context.Context, artistID, followerID string) (bool, error)
}

type gormArtistRepository struct {
	db *gorm.DB
}

// NewArtistRepository creates a GORM-backed ArtistRepository.
func NewArtistRepository(db *gorm.DB) ArtistRepository {
	return &gormArtistRepository{db: db}
}

func (r *gormArtistRepository) CreateProfile(ctx context.Context, profile *model.ArtistProfile) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(profile).Error; err != nil {
			return err
		}
		return tx.Model(&model.User{}).
			Where("id = ?", profile.UserID).
			Update("role", model.RoleArtist).Error
	})
	if err != nil {
		if isDuplicateErr(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create artist profile: %w", err)
	}
	return nil
}

func (r *gormArtistRepository) GetByID(ctx context.Context, id string) (*model.ArtistProfile, error) {
	profile := &model.ArtistProfile{}
	err := r.db.WithContext(ctx).Preload("User").First(profile, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query artist %s: %w", id, err)
	}
	return profile, nil
}

func (r *gormArtistRepository) GetByUserID(ctx context.Context, userID string) (*model.ArtistProfile, error) {
	profile := &model.ArtistProfile{}
	err := r.db.WithContext(ctx).First(profile, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query artist for user %s: %w", userID, err)
	}
	return profile, nil
}

func (r *gormArtistRepository) Update(ctx context.Context, profile *model.ArtistProfile) error {
	err := r.db.WithContext(ctx).Model(profile).
		Select("StageName", "Bio", "CoverURL").
		Updates(profile).Error
	if err != nil {
		return fmt.Errorf("failed to update artist %s: %w", profile.ID, err)
	}
	return nil
}

func (r *gormArtistRepository) Counts(ctx context.Context, artistID string) (*ArtistProfileCounts, error) {
	counts := &ArtistProfileCounts{}
	db := r.db.WithContext(ctx)

	if err := db.Model(&model.Follow{}).Where("artist_id = ?", artistID).Count(&counts.Followers).Error; err != nil {
		return nil, fmt.Errorf("failed to count followers: %w", err)
	}
	if err := db.Model(&model.Track{}).Where("artist_id = ?", artistID).Count(&counts.Tracks).Error; err != nil {
		return nil, fmt.Errorf("failed to count tracks: %w", err)
	}
	if err := db.Model(&model.Album{}).Where("artist_id = ?", artistID).Count(&counts.Albums).Error; err != nil {
		return nil, fmt.Errorf("failed to count albums: %w", err)
	}
	return counts, nil
}

func (r *gormArtistRepository) ToggleFollow(ctx context.Context, artistID, followerID string) (bool, error) {
	var followed bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing := &model.Follow{}
		err := tx.First(existing, "artist_id = ? AND follower_id = ?", artistID, followerID).Error
		if err == nil {
			followed = false
			return tx.Delete(existing).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		followed = true
		return tx.Create(&model.Follow{ArtistID: artistID, FollowerID: followerID}).Error
	})
	if err != nil {
		return false, fmt.Errorf("failed to toggle follow: %w", err)
	}
	return followed, nil
}
