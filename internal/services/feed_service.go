package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/yukikurage/community-board/internal/models"
	"github.com/yukikurage/community-board/internal/observability"
	"github.com/yukikurage/community-board/internal/repository"
	"golang.org/x/sync/errgroup"
)

// FeedPost is a post together with its comments, oldest comment first.
type FeedPost struct {
	models.AuthoredPost
	Comments []models.AuthoredComment
}

// FeedService assembles the board feed.
type FeedService struct {
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	logger      *slog.Logger
	concurrency int
}

// NewFeedService creates a new FeedService fetching at most concurrency
// comment lists at a time.
func NewFeedService(postRepo repository.PostRepository, commentRepo repository.CommentRepository, logger *slog.Logger, concurrency int) *FeedService {
	if concurrency < 1 {
		concurrency = 1
	}
	return &FeedService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		logger:      logger,
		concurrency: concurrency,
	}
}

// BuildFeed returns every post, newest first, each with its comments.
//
// Comment lists are fetched concurrently and written back by post index, so
// the order never depends on which fetch finishes first. If any fetch fails
// the remaining ones are cancelled and no partial feed is returned.
func (s *FeedService) BuildFeed(ctx context.Context) ([]FeedPost, error) {
	done := observability.TrackFeedBuild()

	posts, err := s.postRepo.ListWithAuthors(ctx)
	if err != nil {
		done("error")
		return nil, s.unavailable(ctx, err)
	}

	feed := make([]FeedPost, len(posts))
	if len(posts) == 0 {
		done("ok")
		observability.FeedPosts.Set(0)
		return feed, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i := range posts {
		g.Go(func() error {
			comments, err := s.commentRepo.ListForPostWithAuthors(gctx, posts[i].ID)
			if err != nil {
				return fmt.Errorf("comments for post %d: %w", posts[i].ID, err)
			}
			if comments == nil {
				comments = []models.AuthoredComment{}
			}
			feed[i] = FeedPost{AuthoredPost: posts[i], Comments: comments}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		done("error")
		return nil, s.unavailable(ctx, err)
	}

	done("ok")
	observability.FeedPosts.Set(float64(len(feed)))
	return feed, nil
}

func (s *FeedService) unavailable(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	observability.StorageFaults.WithLabelValues("build_feed").Inc()
	observability.LogFault(ctx, s.logger, "feed unavailable", err)
	return fmt.Errorf("%w: %w", ErrFeedUnavailable, err)
}
