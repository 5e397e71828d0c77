// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// User represents a registered account. The bcrypt hash is never
// serialized; every outward projection goes through Public or relies on
// the json:"-" tag.
type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Username       string    `gorm:"unique;not null" json:"username"`
	Email          string    `gorm:"unique;not null" json:"email"`
	PasswordHash   string    `gorm:"not null" json:"-"`
	Name           *string   `json:"name"`
	Bio            string    `json:"bio"`
	ProfilePicture string    `json:"profile_picture"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// PublicProfile is the subset of user fields embedded in feed entries
// and tweet payloads.
type PublicProfile struct {
	ID             uint    `json:"id"`
	Username       string  `json:"username"`
	Name           *string `json:"name"`
	ProfilePicture string  `json:"profile_picture"`
}

// Public returns the user's public projection.
func (u *User) Public() PublicProfile {
	return PublicProfile{
		ID:             u.ID,
		Username:       u.Username,
		Name:           u.Name,
		ProfilePicture: u.ProfilePicture,
	}
}
