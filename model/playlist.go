package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Playlist is a user-owned ordered collection of tracks.
type Playlist struct {
	ID        string          `gorm:"primaryKey;size:36" json:"id"`
	Title     string          `gorm:"size:100;not null" json:"title"`
	IsPublic  bool            `gorm:"not null;default:true" json:"isPublic"`
	OwnerID   string          `gorm:"size:36;not null;index" json:"ownerId"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
	Owner     *User           `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Items     []PlaylistTrack `gorm:"foreignKey:PlaylistID" json:"items,omitempty"`
	ItemCount int64           `gorm:"->;-:migration" json:"itemCount"`
}

func (p *Playlist) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// PlaylistTrack is one entry in a playlist. Order is appended at insert time
// and preserved on reads.
type PlaylistTrack struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	PlaylistID string    `gorm:"size:36;not null;index:idx_playlist_track,unique" json:"playlistId"`
	TrackID    string    `gorm:"size:36;not null;index:idx_playlist_track,unique" json:"trackId"`
	Order      int       `gorm:"column:position;not null" json:"order"`
	AddedAt    time.Time `json:"addedAt"`
	Track      *Track    `gorm:"foreignKey:TrackID" json:"track,omitempty"`
}

func (pt *PlaylistTrack) BeforeCreate(tx *gorm.DB) error {
	if pt.ID == "" {
		pt.ID = uuid.NewString()
	}
	if pt.AddedAt.IsZero() {
		pt.AddedAt = time.Now()
	}
	return nil
}
