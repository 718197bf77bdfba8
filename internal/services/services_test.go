package services

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/community-board/internal/database"
	"github.com/yukikurage/community-board/internal/observability"
	"github.com/yukikurage/community-board/internal/repository"
	"github.com/yukikurage/community-board/internal/session"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type serviceTestEnv struct {
	db       *gorm.DB
	sessions session.Store
	auth     *AuthService
	content  *ContentService
	feed     *FeedService
}

func discardLogger() *slog.Logger {
	return observability.NewLoggerTo(io.Discard, "error", "text")
}

func setupServiceTestEnv(t *testing.T) serviceTestEnv {
	t.Helper()

	db, err := database.Open(sqlite.Open(filepath.Join(t.TempDir(), "board.db")), logger.Silent)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})
	require.NoError(t, database.Migrate(db))

	users := repository.NewUserRepository(db)
	posts := repository.NewPostRepository(db)
	comments := repository.NewCommentRepository(db)
	store := session.NewGormStore(db, time.Hour)
	log := discardLogger()

	return serviceTestEnv{
		db:       db,
		sessions: store,
		auth:     NewAuthService(users, NewBcryptHasher(bcrypt.MinCost), store, log),
		content:  NewContentService(posts, comments, log),
		feed:     NewFeedService(posts, comments, log, 4),
	}
}
