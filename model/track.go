package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Visibility controls who can see a track.
type Visibility string

const (
	VisibilityPublic   Visibility = "PUBLIC"
	VisibilityUnlisted Visibility = "UNLISTED"
	VisibilityPrivate  Visibility = "PRIVATE"
)

// Track represents an audio track in the catalog. Play and like counts are
// derived at query time, never stored.
type Track struct {
	ID          string         `gorm:"primaryKey;size:36" json:"id"`
	Title       string         `gorm:"size:255;not null" json:"title"`
	Genre       *string        `gorm:"size:50;index" json:"genre,omitempty"`
	AudioURL    string         `gorm:"size:512;not null" json:"audioUrl"`
	CoverURL    *string        `gorm:"size:512" json:"coverUrl,omitempty"`
	DurationSec float64        `json:"durationSec"`
	Visibility  Visibility     `gorm:"size:20;not null;default:PUBLIC" json:"visibility"`
	EditorPick  bool           `gorm:"not null;default:false" json:"editorPick"`
	ArtistID    string         `gorm:"size:36;not null;index" json:"artistId"`
	AlbumID     *string        `gorm:"size:36;index" json:"albumId,omitempty"`
	TrackNumber *int           `json:"trackNumber,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	Artist      *ArtistProfile `gorm:"foreignKey:ArtistID" json:"artist,omitempty"`
	PlayCount   int64          `gorm:"->;-:migration" json:"plays"`
	LikeCount   int64          `gorm:"->;-:migration" json:"likes"`
}

func (t *Track) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// Lyrics holds the lyric text for a track, upserted by the owning artist.
type Lyrics struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	TrackID   string    `gorm:"size:36;not null;uniqueIndex" json:"trackId"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (l *Lyrics) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}
