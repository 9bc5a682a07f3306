package persistence

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"newsroom/domain/apperror"
	"newsroom/domain/model"
	"newsroom/domain/repository"
	"newsroom/infrastructure/utils"
)

const socialPostColumns = "id, article_id, platform, content, status, posted_at, external_ref, error_message, created_at, updated_at"

type SocialPostRepository struct {
	db *sql.DB
}

func NewSocialPostRepository(db *sql.DB) *SocialPostRepository { return &SocialPostRepository{db: db} }

func (r *SocialPostRepository) Create(ctx context.Context, p *model.SocialPost) (*model.SocialPost, error) {
	out := *p
	out.ID = uuid.NewString()
	now := utils.GetCurrentTime()
	out.CreatedAt, out.UpdatedAt = now, now
	if out.Status == "" {
		out.Status = model.SocialPostPending
	}
	q := `INSERT INTO social_posts (` + socialPostColumns + `) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`
	if _, err := r.db.ExecContext(ctx, q, out.ID, out.ArticleID, string(out.Platform), out.Content, string(out.Status),
		out.PostedAt, out.ExternalRef, out.ErrorMessage, out.CreatedAt, out.UpdatedAt); err != nil {
		return nil, apperror.Internal("insert social post", err)
	}
	return &out, nil
}

func (r *SocialPostRepository) GetByID(ctx context.Context, id string) (*model.SocialPost, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+socialPostColumns+` FROM social_posts WHERE id=$1`, id)
	return scanSocialPostRow(row, id)
}

func (r *SocialPostRepository) ListByArticle(ctx context.Context, articleID string) ([]*model.SocialPost, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+socialPostColumns+` FROM social_posts WHERE article_id=$1 ORDER BY created_at ASC`, articleID)
	if err != nil {
		return nil, apperror.Internal("list social posts", err)
	}
	defer rows.Close()
	list := []*model.SocialPost{}
	for rows.Next() {
		p, err := scanSocialPost(rows)
		if err != nil {
			return nil, apperror.Internal("scan social post", err)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.Internal("list social posts", err)
	}
	return list, nil
}

func (r *SocialPostRepository) MarkPosted(ctx context.Context, id string, externalRef string) (*model.SocialPost, error) {
	now := utils.GetCurrentTime()
	var ref *string
	if externalRef != "" {
		ref = &externalRef
	}
	row := r.db.QueryRowContext(ctx, `UPDATE social_posts SET status='posted', posted_at=$1, external_ref=$2, error_message=NULL, updated_at=$1
        WHERE id=$3 AND status<>'posted' RETURNING `+socialPostColumns, now, ref, id)
	return r.settle(ctx, row, id)
}

func (r *SocialPostRepository) MarkFailed(ctx context.Context, id string, errMsg string) (*model.SocialPost, error) {
	row := r.db.QueryRowContext(ctx, `UPDATE social_posts SET status='failed', error_message=$1, updated_at=$2
        WHERE id=$3 AND status<>'posted' RETURNING `+socialPostColumns, errMsg, utils.GetCurrentTime(), id)
	return r.settle(ctx, row, id)
}

// settle returns the updated row, or the current row when the guard skipped an
// already-posted post.
func (r *SocialPostRepository) settle(ctx context.Context, row *sql.Row, id string) (*model.SocialPost, error) {
	p, err := scanSocialPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return r.GetByID(ctx, id)
	}
	if err != nil {
		return nil, apperror.Internal("update social post", err)
	}
	return p, nil
}

func (r *SocialPostRepository) DeleteByArticle(ctx context.Context, articleID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM social_posts WHERE article_id=$1`, articleID)
	if err != nil {
		return 0, apperror.Internal("delete social posts", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, apperror.Internal("delete social posts", err)
	}
	return n, nil
}

func scanSocialPostRow(row *sql.Row, id string) (*model.SocialPost, error) {
	p, err := scanSocialPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NotFound("social post " + id + " not found")
	}
	if err != nil {
		return nil, apperror.Internal("scan social post", err)
	}
	return p, nil
}

func scanSocialPost(s rowScanner) (*model.SocialPost, error) {
	p := &model.SocialPost{}
	var platform, status string
	var postedAt sql.NullTime
	var externalRef, errMsg sql.NullString
	if err := s.Scan(&p.ID, &p.ArticleID, &platform, &p.Content, &status, &postedAt, &externalRef, &errMsg, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.Platform = model.Platform(platform)
	p.Status = model.SocialPostStatus(status)
	if postedAt.Valid {
		v := postedAt.Time
		p.PostedAt = &v
	}
	if externalRef.Valid {
		v := externalRef.String
		p.ExternalRef = &v
	}
	if errMsg.Valid {
		v := errMsg.String
		p.ErrorMessage = &v
	}
	return p, nil
}

var _ repository.ISocialPost = (*SocialPostRepository)(nil)
