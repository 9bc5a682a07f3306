package repository

import (
	"context"

	"newsroom/domain/model"
)

type ISocialPost interface {
	Create(ctx context.Context, post *model.SocialPost) (*model.SocialPost, error)
	GetByID(ctx context.Context, id string) (*model.SocialPost, error)
	ListByArticle(ctx context.Context, articleID string) ([]*model.SocialPost, error)
	// MarkPosted and MarkFailed never move a post out of the posted state.
	MarkPosted(ctx context.Context, id string, externalRef string) (*model.SocialPost, error)
	MarkFailed(ctx context.Context, id string, errMsg string) (*model.SocialPost, error)
	DeleteByArticle(ctx context.Context, articleID string) (int64, error)
}

type IPlatformToken interface {
	UpsertToken(ctx context.Context, token *model.PlatformToken) error
	GetToken(ctx context.Context, platform model.Platform) (*model.PlatformToken, error)
}
