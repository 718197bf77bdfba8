package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/community-board/internal/errors"
	"github.com/yukikurage/community-board/internal/services"
)

func respondAPIError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUnauthenticated):
		apierrors.Unauthorized(c, err.Error())
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrFeedUnavailable):
		apierrors.FeedUnavailable(c)
	case errors.Is(err, services.ErrStorageUnavailable):
		apierrors.StorageUnavailable(c)
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
