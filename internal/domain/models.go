package domain

import "time"

type User struct {
	ID          string
	Email       string
	Username    string
	ImageFile   string
	Gender      string
	DOB         *time.Time
	Job         string
	Home        string
	LastStudies string
	Friends     int
	CreatedAt   time.Time
	UpdatedAt   time.Time
	LastLoginAt *time.Time
}

type UserWithPassword struct {
	User
	PasswordHash string
}

// ProfileUpdate carries the fields a user may change on the settings page.
// A nil DOB clears the stored date of birth.
type ProfileUpdate struct {
	Username    string
	Email       string
	Gender      string
	DOB         *time.Time
	Job         string
	Home        string
	LastStudies string
}

type Session struct {
	ID        string
	UserID    string
	CreatedAt time.Time
	ExpiresAt time.Time
	RevokedAt *time.Time
}
