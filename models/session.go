package models

import "time"

// Session binds a browser cookie to an authenticated user.
type Session struct {
	Token     string    `json:"-" gorm:"primaryKey;size:36"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	User      User      `json:"-" gorm:"foreignKey:UserID"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// Expired reports whether the session is past its expiry.
func (s *Session) Expired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Blacklist records API access tokens revoked by logout.
type Blacklist struct {
	Model
	Token string `json:"token" gorm:"uniqueIndex"`
}
