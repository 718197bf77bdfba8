package dto

import (
	"time"

	"github.com/yukikurage/community-board/internal/models"
	"github.com/yukikurage/community-board/internal/services"
)

// AuthorDTO identifies who wrote a post or comment
type AuthorDTO struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
}

// CommentDTO represents a comment in the feed
type CommentDTO struct {
	ID        uint64    `json:"id"`
	Author    AuthorDTO `json:"author"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// FeedPostDTO represents a post with its comments
type FeedPostDTO struct {
	ID        uint64       `json:"id"`
	Author    AuthorDTO    `json:"author"`
	Title     string       `json:"title"`
	Content   string       `json:"content"`
	CreatedAt time.Time    `json:"created_at"`
	Comments  []CommentDTO `json:"comments"`
}

// FeedDTO is the response body of the feed endpoint
type FeedDTO struct {
	Posts []FeedPostDTO `json:"posts"`
}

// ToCommentDTO converts a comment to DTO
func ToCommentDTO(comment models.AuthoredComment) CommentDTO {
	return CommentDTO{
		ID:        comment.ID,
		Author:    AuthorDTO{ID: comment.AuthorID, Username: comment.AuthorUsername},
		Body:      comment.Body,
		CreatedAt: comment.CreatedAt,
	}
}

// ToFeedDTO converts an assembled feed to DTO, keeping its order
func ToFeedDTO(feed []services.FeedPost) FeedDTO {
	posts := make([]FeedPostDTO, len(feed))
	for i, post := range feed {
		comments := make([]CommentDTO, len(post.Comments))
		for j, comment := range post.Comments {
			comments[j] = ToCommentDTO(comment)
		}

		posts[i] = FeedPostDTO{
			ID:        post.ID,
			Author:    AuthorDTO{ID: post.AuthorID, Username: post.AuthorUsername},
			Title:     post.Title,
			Content:   post.Content,
			CreatedAt: post.CreatedAt,
			Comments:  comments,
		}
	}
	return FeedDTO{Posts: posts}
}
