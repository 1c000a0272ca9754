package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Like marks a user liking a track. At most one per (user, track) pair;
// liking again removes it.
type Like struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"size:36;not null;index:idx_like_user_track,unique" json:"userId"`
	TrackID   string    `gorm:"size:36;not null;index:idx_like_user_track,unique" json:"trackId"`
	CreatedAt time.Time `json:"createdAt"`
	Track     *Track    `gorm:"foreignKey:TrackID" json:"track,omitempty"`
}

func (l *Like) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

// Follow marks a user following an artist. Toggled like Like.
type Follow struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	FollowerID string    `gorm:"size:36;not null;index:idx_follow_pair,unique" json:"followerId"`
	ArtistID   string    `gorm:"size:36;not null;index:idx_follow_pair,unique" json:"artistId"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (f *Follow) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}

// PlayEvent records one playback start. Created exactly once per start and
// immutable afterwards; analytics only ever reads these rows.
type PlayEvent struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	TrackID   string    `gorm:"size:36;not null;index" json:"trackId"`
	UserID    string    `gorm:"size:36;not null;index" json:"userId"`
	StartedAt time.Time `gorm:"not null;index" json:"startedAt"`
	Track     *Track    `gorm:"foreignKey:TrackID" json:"track,omitempty"`
}

func (p *PlayEvent) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.StartedAt.IsZero() {
		p.StartedAt = time.Now()
	}
	return nil
}
