package persistence

import (
	"context"
	"database/sql"
	"errors"

	"newsroom/domain/apperror"
	"newsroom/domain/model"
	"newsroom/domain/repository"
	"newsroom/infrastructure/utils"
)

type PlatformTokenRepository struct{ db *sql.DB }

func NewPlatformTokenRepository(db *sql.DB) *PlatformTokenRepository {
	return &PlatformTokenRepository{db: db}
}

func (r *PlatformTokenRepository) UpsertToken(ctx context.Context, t *model.PlatformToken) error {
	now := utils.GetCurrentTime()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
	q := `INSERT INTO platform_tokens (platform, access_token, account_id, account_name, expires_at, created_at, updated_at)
		  VALUES ($1,$2,$3,$4,$5,$6,$7)
		  ON CONFLICT (platform) DO UPDATE SET
			access_token=EXCLUDED.access_token,
			account_id=EXCLUDED.account_id,
			account_name=EXCLUDED.account_name,
			expires_at=EXCLUDED.expires_at,
			updated_at=EXCLUDED.updated_at`
	if _, err := r.db.ExecContext(ctx, q, string(t.Platform), t.AccessToken, t.AccountID, t.AccountName, t.ExpiresAt, t.CreatedAt, t.UpdatedAt); err != nil {
		return apperror.Internal("upsert platform token", err)
	}
	return nil
}

// GetToken returns NotFoundError when no credential is stored for platform.
func (r *PlatformTokenRepository) GetToken(ctx context.Context, platform model.Platform) (*model.PlatformToken, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, platform, access_token, account_id, account_name, expires_at, created_at, updated_at FROM platform_tokens WHERE platform=$1`, string(platform))
	tok := &model.PlatformToken{}
	var p string
	var exp sql.NullTime
	var name sql.NullString
	if err := row.Scan(&tok.ID, &p, &tok.AccessToken, &tok.AccountID, &name, &exp, &tok.CreatedAt, &tok.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("no token stored for " + string(platform))
		}
		return nil, apperror.Internal("get platform token", err)
	}
	tok.Platform = model.Platform(p)
	if exp.Valid {
		tok.ExpiresAt = &exp.Time
	}
	if name.Valid {
		v := name.String
		tok.AccountName = &v
	}
	return tok, nil
}

var _ repository.IPlatformToken = (*PlatformTokenRepository)(nil)
