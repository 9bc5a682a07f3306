package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	"newsroom/infrastructure/configuration"

	_ "github.com/lib/pq"
)

// NewPostgreSQLDB opens and pings a pooled connection to the article database.
func NewPostgreSQLDB(ctx context.Context, cfg configuration.Db) (*sql.DB, error) {
	q := url.Values{}
	q.Set("sslmode", cfg.SSLMode)
	u := &url.URL{
		Scheme:   "postgres",
		Host:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Path:     "/" + cfg.Name,
		RawQuery: q.Encode(),
	}
	if cfg.User != "" {
		if cfg.Password != "" {
			u.User = url.UserPassword(cfg.User, cfg.Password)
		} else {
			u.User = url.User(cfg.User)
		}
	}

	db, err := sql.Open("postgres", u.String())
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
