package models

import "time"

type Post struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	AuthorID  uint64    `gorm:"not null;index" json:"author_id"`
	Title     string    `gorm:"type:varchar(255);not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	Comments []Comment `gorm:"foreignKey:PostID" json:"-"`
}

// AuthoredPost is a post joined with its author's username.
type AuthoredPost struct {
	ID             uint64    `json:"id"`
	AuthorID       uint64    `json:"author_id"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
	AuthorUsername string    `json:"author_username"`
}
