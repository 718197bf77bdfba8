package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/community-board/internal/dto"
	"github.com/yukikurage/community-board/internal/middleware"
	"github.com/yukikurage/community-board/internal/services"
)

// FeedHandler serves the board itself: the feed, posts and comments.
type FeedHandler struct {
	feedService    *services.FeedService
	contentService *services.ContentService
}

// NewFeedHandler creates a new FeedHandler.
func NewFeedHandler(feedService *services.FeedService, contentService *services.ContentService) *FeedHandler {
	return &FeedHandler{
		feedService:    feedService,
		contentService: contentService,
	}
}

// Welcome renders the landing page of a logged in user.
func (h *FeedHandler) Welcome(c *gin.Context) {
	identity, _ := middleware.GetIdentity(c)
	renderFeed(c, h.feedService, "welcome.html", identity.Username)
}

// ListPosts renders the feed together with the new post form.
func (h *FeedHandler) ListPosts(c *gin.Context) {
	identity, _ := middleware.GetIdentity(c)
	renderFeed(c, h.feedService, "posts.html", identity.Username)
}

// CreatePost publishes a post as the current user.
func (h *FeedHandler) CreatePost(c *gin.Context) {
	type postForm struct {
		Title   string `form:"title"`
		Content string `form:"content"`
	}

	var form postForm
	if err := c.ShouldBind(&form); err != nil {
		renderError(c, http.StatusBadRequest, "Invalid form submission.")
		return
	}

	identity, _ := middleware.GetIdentity(c)
	_, err := h.contentService.CreatePost(c.Request.Context(), services.CreatePostInput{
		AuthorID: identity.UserID,
		Title:    form.Title,
		Content:  form.Content,
	})
	if err != nil {
		renderServiceError(c, err)
		return
	}

	c.Redirect(http.StatusFound, "/posts")
}

// CreateComment comments on a post as the current user.
func (h *FeedHandler) CreateComment(c *gin.Context) {
	postID, err := strconv.ParseUint(c.Param("postId"), 10, 64)
	if err != nil {
		renderError(c, http.StatusBadRequest, "Invalid post id.")
		return
	}

	identity, _ := middleware.GetIdentity(c)
	_, err = h.contentService.CreateComment(c.Request.Context(), services.CreateCommentInput{
		PostID:   postID,
		AuthorID: identity.UserID,
		Body:     c.PostForm("comment"),
	})
	if err != nil {
		renderServiceError(c, err)
		return
	}

	c.Redirect(http.StatusFound, "/posts")
}

// GetFeed returns the feed as JSON.
func (h *FeedHandler) GetFeed(c *gin.Context) {
	feed, err := h.feedService.BuildFeed(c.Request.Context())
	if err != nil {
		respondAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToFeedDTO(feed))
}

func renderFeed(c *gin.Context, feedService *services.FeedService, page, username string) {
	feed, err := feedService.BuildFeed(c.Request.Context())
	if err != nil {
		renderServiceError(c, err)
		return
	}

	c.HTML(http.StatusOK, page, gin.H{
		"Username": username,
		"Posts":    feed,
	})
}

func renderError(c *gin.Context, status int, message string) {
	c.HTML(status, "error.html", gin.H{"Message": message})
}

// renderServiceError maps service errors onto an HTML error page.
func renderServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		renderError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrPostNotFound):
		renderError(c, http.StatusNotFound, "That post does not exist.")
	case errors.Is(err, services.ErrUnauthenticated):
		c.Redirect(http.StatusFound, "/")
	case errors.Is(err, services.ErrFeedUnavailable):
		renderError(c, http.StatusServiceUnavailable, "Failed to load posts. Please try again.")
	case errors.Is(err, services.ErrStorageUnavailable):
		renderError(c, http.StatusServiceUnavailable, "The board is temporarily unavailable. Please try again.")
	default:
		renderError(c, http.StatusInternalServerError, "Internal server error")
	}
}
