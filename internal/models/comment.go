package models

import "time"

type Comment struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	PostID    uint64    `gorm:"not null" json:"post_id"`
	AuthorID  uint64    `gorm:"not null;index" json:"author_id"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthoredComment is a comment joined with its author's username.
type AuthoredComment struct {
	ID             uint64    `json:"id"`
	PostID         uint64    `json:"post_id"`
	AuthorID       uint64    `json:"author_id"`
	Body           string    `json:"body"`
	CreatedAt      time.Time `json:"created_at"`
	AuthorUsername string    `json:"author_username"`
}
