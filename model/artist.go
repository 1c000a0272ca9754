package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ArtistProfile is the artist identity attached to a user account. A user
// has at most one profile; creating it upgrades the account role to ARTIST.
type ArtistProfile struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	UserID      string    `gorm:"size:36;not null;uniqueIndex" json:"userId"`
	StageName   string    `gorm:"size:100;not null" json:"stageName"`
	Bio         string    `gorm:"size:1000" json:"bio,omitempty"`
	CoverURL    *string   `gorm:"size:512" json:"coverUrl,omitempty"`
	LabelSigned bool      `gorm:"not null;default:false" json:"labelSigned"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	User        *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (a *ArtistProfile) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// ArtistRef is the artist shape embedded in track and report responses.
type ArtistRef struct {
	ID        string `json:"id"`
	StageName string `json:"stageName"`
}

// Ref returns the embeddable reference for this profile.
func (a *ArtistProfile) Ref() ArtistRef {
	return ArtistRef{ID: a.ID, StageName: a.StageName}
}
