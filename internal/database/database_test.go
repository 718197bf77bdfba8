package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/community-board/internal/config"
	"github.com/yukikurage/community-board/internal/models"
)

func TestConnectAndMigrate_SQLite(t *testing.T) {
	cfg := &config.Config{
		DBDriver: "sqlite",
		DBPath:   filepath.Join(t.TempDir(), "nested", "board.db"),
		LogLevel: "error",
	}

	db, err := Connect(cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	require.NoError(t, Migrate(db))
	// Running twice must be a no-op.
	require.NoError(t, Migrate(db))

	for _, model := range []interface{}{&models.User{}, &models.Post{}, &models.Comment{}, &models.Session{}} {
		assert.True(t, db.Migrator().HasTable(model))
	}
	assert.True(t, db.Migrator().HasIndex(&models.Post{}, "idx_posts_created_at"))
	assert.True(t, db.Migrator().HasIndex(&models.Comment{}, "idx_comments_post_created"))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
}

func TestConnect_UnsupportedDriver(t *testing.T) {
	_, err := Connect(&config.Config{DBDriver: "oracle"})
	assert.Error(t, err)
}
