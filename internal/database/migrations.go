package database

import (
	"fmt"
	"log"

	"github.com/yukikurage/community-board/internal/models"
	"gorm.io/gorm"
)

// AddIndexes adds the indexes the feed queries rely on
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		model   interface{}
		table   string
		name    string
		columns string
	}{
		// Post listing is ordered by creation time
		{&models.Post{}, "posts", "idx_posts_created_at", "created_at"},

		// Comments are fetched per post in creation order
		{&models.Comment{}, "comments", "idx_comments_post_created", "post_id, created_at"},

		// Session lookups during account deletion
		{&models.Session{}, "sessions", "idx_sessions_user_expires", "user_id, expires_at"},
	}

	for _, idx := range indexes {
		if db.Migrator().HasIndex(idx.model, idx.name) {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Printf("Created index %s on %s(%s)", idx.name, idx.table, idx.columns)
	}

	return nil
}
