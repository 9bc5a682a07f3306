package repository

import (
	"context"

	"newsroom/domain/model"
)

// IArticle is the article store. Update is last-write-wins and Delete is a
// hard delete that does not touch dependent social posts.
type IArticle interface {
	Create(ctx context.Context, article *model.Article) (*model.Article, error)
	GetByID(ctx context.Context, id string) (*model.Article, error)
	GetBySlug(ctx context.Context, slug string) (*model.Article, error)
	Update(ctx context.Context, id string, patch model.ArticlePatch) (*model.Article, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter model.ArticleFilter) ([]*model.Article, error)
}
