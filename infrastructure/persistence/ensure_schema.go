package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"newsroom/infrastructure/logger"
)

var createTables = []string{
	`CREATE TABLE IF NOT EXISTS articles (
        id TEXT PRIMARY KEY,
        slug TEXT NOT NULL UNIQUE,
        title TEXT NOT NULL,
        excerpt TEXT NOT NULL DEFAULT '',
        body TEXT NOT NULL,
        category TEXT NOT NULL DEFAULT '',
        status TEXT NOT NULL DEFAULT 'draft' CHECK (status IN ('draft','review','published')),
        main_image TEXT,
        source_url TEXT,
        published_at TIMESTAMPTZ,
        created_at TIMESTAMPTZ NOT NULL,
        updated_at TIMESTAMPTZ NOT NULL,
        CONSTRAINT articles_published_at_iff_published CHECK ((status = 'published') = (published_at IS NOT NULL))
    )`,
	`CREATE INDEX IF NOT EXISTS idx_articles_status_created_at ON articles(status, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_articles_category ON articles(category)`,
	`CREATE TABLE IF NOT EXISTS social_posts (
        id TEXT PRIMARY KEY,
        article_id TEXT NOT NULL,
        platform TEXT NOT NULL CHECK (platform IN ('facebook','instagram','x')),
        content TEXT NOT NULL,
        status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending','posted','failed')),
        posted_at TIMESTAMPTZ,
        created_at TIMESTAMPTZ NOT NULL,
        updated_at TIMESTAMPTZ NOT NULL,
        CONSTRAINT social_posts_posted_at_iff_posted CHECK ((status = 'posted') = (posted_at IS NOT NULL))
    )`,
	`CREATE INDEX IF NOT EXISTS idx_social_posts_article_id ON social_posts(article_id)`,
	`CREATE TABLE IF NOT EXISTS platform_tokens (
        id BIGSERIAL PRIMARY KEY,
        platform TEXT NOT NULL UNIQUE,
        access_token TEXT NOT NULL,
        account_id TEXT NOT NULL DEFAULT '',
        account_name TEXT,
        expires_at TIMESTAMPTZ,
        created_at TIMESTAMPTZ NOT NULL,
        updated_at TIMESTAMPTZ NOT NULL
    )`,
}

// EnsureSchema creates the tables if needed and adds newer columns that older
// deployments are missing. Safe to call at every startup.
func EnsureSchema(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, ddl := range createTables {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}

	checks := []struct {
		table  string
		column string
		ddl    string
	}{
		{"social_posts", "external_ref", "ALTER TABLE social_posts ADD COLUMN external_ref TEXT"},
		{"social_posts", "error_message", "ALTER TABLE social_posts ADD COLUMN error_message TEXT"},
	}

	for _, c := range checks {
		exists, err := columnExists(ctx, db, c.table, c.column)
		if err != nil {
			return err
		}
		if !exists {
			if _, err := db.ExecContext(ctx, c.ddl); err != nil {
				return fmt.Errorf("adding column %s.%s failed: %w", c.table, c.column, err)
			}
			logger.GetLogger().WithField("table", c.table).WithField("column", c.column).Info("Added missing column")
		}
	}
	return nil
}

func columnExists(ctx context.Context, db *sql.DB, table, column string) (bool, error) {
	row := db.QueryRowContext(ctx, `SELECT 1 FROM information_schema.columns WHERE table_name=$1 AND column_name=$2`, table, column)
	var one int
	if err := row.Scan(&one); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
