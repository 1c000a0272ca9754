package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Album groups an artist's tracks. Tracks reference the album and carry
// their own track numbers.
type Album struct {
	ID         string         `gorm:"primaryKey;size:36" json:"id"`
	Title      string         `gorm:"size:100;not null" json:"title"`
	CoverURL   *string        `gorm:"size:512" json:"coverUrl,omitempty"`
	ArtistID   string         `gorm:"size:36;not null;index" json:"artistId"`
	ReleasedAt *time.Time     `json:"releasedAt,omitempty"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
	Artist     *ArtistProfile `gorm:"foreignKey:ArtistID" json:"artist,omitempty"`
	Tracks     []Track        `gorm:"foreignKey:AlbumID" json:"tracks,omitempty"`
	TrackCount int64          `gorm:"->;-:migration" json:"trackCount"`
}

func (a *Album) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
