package model

import "time"

// User represents a registered user of the playlist service.
type User struct {
	ID           int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Username     string    `json:"username" gorm:"size:64;uniqueIndex"`
	Email        string    `json:"email" gorm:"size:128;uniqueIndex"`
	PasswordHash string    `json:"-" gorm:"size:128"` // Not exposed in API responses
	AvatarPath   string    `json:"avatarPath,omitempty" gorm:"size:255"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
