package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the account role. Listeners become artists by creating an artist
// profile; admin is assigned out of band.
type Role string

const (
	RoleListener Role = "LISTENER"
	RoleArtist   Role = "ARTIST"
	RoleAdmin    Role = "ADMIN"
)

// User represents an account in the system.
type User struct {
	ID           string         `gorm:"primaryKey;size:36" json:"id"`
	Email        string         `gorm:"size:255;not null;uniqueIndex" json:"email"`
	PasswordHash string         `gorm:"size:255;not null" json:"-"`
	DisplayName  string         `gorm:"size:100;not null" json:"displayName"`
	Role         Role           `gorm:"size:20;not null;default:LISTENER" json:"role"`
	Country      *string        `gorm:"size:2" json:"country,omitempty"`
	AvatarURL    *string        `gorm:"size:512" json:"avatarUrl,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	Artist       *ArtistProfile `gorm:"foreignKey:UserID" json:"artist,omitempty"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// PublicUser is the shape of a user embedded in other responses.
type PublicUser struct {
	ID          string  `json:"id"`
	DisplayName string  `json:"displayName"`
	AvatarURL   *string `json:"avatarUrl,omitempty"`
}

// Public strips credentials and private fields.
func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, DisplayName: u.DisplayName, AvatarURL: u.AvatarURL}
}
