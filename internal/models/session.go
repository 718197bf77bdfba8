package models

import "time"

// Session is a server-side login session for the SQL session backend.
type Session struct {
	Token     string    `gorm:"primaryKey;type:varchar(64)"`
	UserID    uint64    `gorm:"not null;index"`
	Username  string    `gorm:"type:varchar(255);not null"`
	ExpiresAt time.Time `gorm:"not null;index"`
	CreatedAt time.Time
}
