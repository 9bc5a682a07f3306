package usecase

import (
	"context"

	"newsroom/domain/model"
	"newsroom/infrastructure/cache"
)

type IExtractor interface {
	Extract(ctx context.Context, rawURL string) (*model.ExtractedContent, error)
}

type IInvalidator interface {
	Invalidate(ctx context.Context, scopes ...cache.Scope) cache.InvalidationResult
}

type IArticleCache interface {
	GetByID(ctx context.Context, id string) (*model.Article, bool)
	GetBySlug(ctx context.Context, slug string) (*model.Article, bool)
	Set(ctx context.Context, a *model.Article)
	GetList(ctx context.Context, f model.ArticleFilter) ([]*model.Article, bool)
	SetList(ctx context.Context, f model.ArticleFilter, list []*model.Article)
}

type IStatusBroadcaster interface {
	BroadcastPostStatus(post *model.SocialPost)
}

var (
	_ IInvalidator  = (*cache.Invalidator)(nil)
	_ IArticleCache = (*cache.ArticleCache)(nil)
)
