package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"newsroom/domain/apperror"
	"newsroom/domain/model"
	"newsroom/domain/repository"
	"newsroom/infrastructure/utils"
)

const (
	articleColumns  = "id, slug, title, excerpt, body, category, status, main_image, source_url, published_at, created_at, updated_at"
	maxSlugAttempts = 3
	defaultPageSize = 20
	maxPageSize     = 100
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// ArticleRepository implements repository.IArticle on PostgreSQL.
type ArticleRepository struct {
	db *sql.DB
}

func NewArticleRepository(db *sql.DB) *ArticleRepository { return &ArticleRepository{db: db} }

// Create inserts the article with a fresh id. A taken slug is retried with a
// short random suffix.
func (r *ArticleRepository) Create(ctx context.Context, a *model.Article) (*model.Article, error) {
	out := *a
	out.ID = uuid.NewString()
	now := utils.GetCurrentTime()
	out.CreatedAt, out.UpdatedAt = now, now
	if out.Status == "" {
		out.Status = model.ArticleStatusDraft
	}

	base := out.Slug
	q := `INSERT INTO articles (` + articleColumns + `)
          VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
          ON CONFLICT (slug) DO NOTHING
          RETURNING id`
	for attempt := 0; attempt < maxSlugAttempts; attempt++ {
		slug := base
		if attempt > 0 {
			slug = fmt.Sprintf("%s-%s", base, uuid.NewString()[:6])
		}
		var id string
		err := r.db.QueryRowContext(ctx, q,
			out.ID, slug, out.Title, out.Excerpt, out.Body, out.Category, string(out.Status),
			out.MainImage, out.SourceURL, out.PublishedAt, out.CreatedAt, out.UpdatedAt,
		).Scan(&id)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return nil, apperror.Internal("insert article", err)
		}
		out.Slug = slug
		return &out, nil
	}
	return nil, apperror.Internal(fmt.Sprintf("slug %q still taken after %d attempts", base, maxSlugAttempts), nil)
}

func (r *ArticleRepository) GetByID(ctx context.Context, id string) (*model.Article, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+articleColumns+` FROM articles WHERE id=$1`, id)
	return scanArticleRow(row, "article "+id)
}

func (r *ArticleRepository) GetBySlug(ctx context.Context, slug string) (*model.Article, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+articleColumns+` FROM articles WHERE slug=$1`, slug)
	return scanArticleRow(row, "article with slug "+slug)
}

// Update applies the non-nil patch fields. Last write wins.
func (r *ArticleRepository) Update(ctx context.Context, id string, p model.ArticlePatch) (*model.Article, error) {
	b := psql.Update("articles").Set("updated_at", utils.GetCurrentTime())
	if p.Title != nil {
		b = b.Set("title", *p.Title)
	}
	if p.Excerpt != nil {
		b = b.Set("excerpt", *p.Excerpt)
	}
	if p.Body != nil {
		b = b.Set("body", *p.Body)
	}
	if p.Category != nil {
		b = b.Set("category", *p.Category)
	}
	if p.Status != nil {
		b = b.Set("status", string(*p.Status))
	}
	if p.MainImage != nil {
		b = b.Set("main_image", *p.MainImage)
	}
	if p.PublishedAt != nil {
		b = b.Set("published_at", *p.PublishedAt)
	}
	query, args, err := b.Where(sq.Eq{"id": id}).Suffix("RETURNING " + articleColumns).ToSql()
	if err != nil {
		return nil, apperror.Internal("build article update", err)
	}
	return scanArticleRow(r.db.QueryRowContext(ctx, query, args...), "article "+id)
}

// Delete removes the row immediately. Dependent social posts are left alone.
func (r *ArticleRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM articles WHERE id=$1`, id)
	if err != nil {
		return apperror.Internal("delete article", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperror.Internal("delete article", err)
	}
	if n == 0 {
		return apperror.NotFound("article " + id + " not found")
	}
	return nil
}

func (r *ArticleRepository) List(ctx context.Context, f model.ArticleFilter) ([]*model.Article, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	b := psql.Select(articleColumns).From("articles")
	if f.Status != "" {
		b = b.Where(sq.Eq{"status": string(f.Status)})
	}
	if f.Category != "" {
		b = b.Where(sq.Eq{"category": f.Category})
	}
	query, args, err := b.OrderBy("created_at DESC").Limit(uint64(limit)).Offset(uint64(offset)).ToSql()
	if err != nil {
		return nil, apperror.Internal("build article list", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperror.Internal("list articles", err)
	}
	defer rows.Close()
	list := make([]*model.Article, 0, limit)
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, apperror.Internal("scan article", err)
		}
		list = append(list, a)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.Internal("list articles", err)
	}
	return list, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArticleRow(row *sql.Row, what string) (*model.Article, error) {
	a, err := scanArticle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NotFound(what + " not found")
	}
	if err != nil {
		return nil, apperror.Internal("scan article", err)
	}
	return a, nil
}

func scanArticle(s rowScanner) (*model.Article, error) {
	a := &model.Article{}
	var status string
	var mainImage, sourceURL sql.NullString
	var publishedAt sql.NullTime
	if err := s.Scan(&a.ID, &a.Slug, &a.Title, &a.Excerpt, &a.Body, &a.Category, &status,
		&mainImage, &sourceURL, &publishedAt, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	a.Status = model.ArticleStatus(status)
	if mainImage.Valid {
		v := mainImage.String
		a.MainImage = &v
	}
	if sourceURL.Valid {
		v := sourceURL.String
		a.SourceURL = &v
	}
	if publishedAt.Valid {
		v := publishedAt.Time
		a.PublishedAt = &v
	}
	return a, nil
}

var _ repository.IArticle = (*ArticleRepository)(nil)
