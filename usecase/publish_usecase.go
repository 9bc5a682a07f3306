package usecase

import (
	"context"

	"newsroom/domain/model"
	"newsroom/domain/repository"
	"newsroom/infrastructure/cache"
	"newsroom/infrastructure/events"
	"newsroom/infrastructure/generator"
	"newsroom/infrastructure/logger"
	"newsroom/infrastructure/utils"
)

type PublishResult struct {
	Article     *model.Article `json:"article"`
	SideEffects []SideEffect   `json:"sideEffects"`
}

type IPublishUsecase interface {
	FinalizeAndPublish(ctx context.Context, articleID string) (*PublishResult, error)
}

type publishUsecase struct {
	articles    repository.IArticle
	generator   generator.IGenerator
	invalidator IInvalidator
	events      events.Publisher
}

func NewPublishUsecase(articles repository.IArticle, gen generator.IGenerator, invalidator IInvalidator, ev events.Publisher) IPublishUsecase {
	return &publishUsecase{articles: articles, generator: gen, invalidator: invalidator, events: ev}
}

// FinalizeAndPublish refines the article and makes it live. Calling it on an
// already published article refines again and moves published_at forward.
func (u *publishUsecase) FinalizeAndPublish(ctx context.Context, articleID string) (*PublishResult, error) {
	article, err := u.articles.GetByID(ctx, articleID)
	if err != nil {
		return nil, err
	}

	refined, err := u.generator.Refine(ctx, article)
	if err != nil {
		logger.GetLogger().WithField("article_id", articleID).WithField("error", err).Error("Refinement failed")
		return nil, err
	}

	status := model.ArticleStatusPublished
	now := utils.GetCurrentTime()
	updated, err := u.articles.Update(ctx, article.ID, model.ArticlePatch{
		Title:       &refined.Title,
		Excerpt:     &refined.Excerpt,
		Body:        &refined.Body,
		Status:      &status,
		PublishedAt: &now,
	})
	if err != nil {
		return nil, err
	}
	logger.GetLogger().WithField("article_id", updated.ID).WithField("slug", updated.Slug).Info("Article published")

	return &PublishResult{
		Article:     updated,
		SideEffects: runSideTasks(ctx, publishedSideTasks(updated, u.invalidator, u.events)...),
	}, nil
}

func publishedSideTasks(a *model.Article, invalidator IInvalidator, ev events.Publisher) []sideTask {
	return []sideTask{
		{name: sideEffectCacheInvalidation, run: func(ctx context.Context) error {
			invalidator.Invalidate(ctx, cache.ArticleScope(a.ID, a.Slug), cache.CategoryScope(a.Category), cache.GlobalScope())
			return nil
		}},
		{name: sideEffectEventPublish, run: func(ctx context.Context) error {
			publishedAt := utils.GetCurrentTime()
			if a.PublishedAt != nil {
				publishedAt = *a.PublishedAt
			}
			return ev.PublishArticlePublished(ctx, model.ArticlePublishedEvent{
				Type:        events.TypeArticlePublished,
				ArticleID:   a.ID,
				Slug:        a.Slug,
				Title:       a.Title,
				Category:    a.Category,
				PublishedAt: publishedAt,
			})
		}},
	}
}

// listingSideTask purges the listings a new unpublished article appears in.
func listingSideTask(a *model.Article, invalidator IInvalidator) sideTask {
	return sideTask{name: sideEffectCacheInvalidation, run: func(ctx context.Context) error {
		invalidator.Invalidate(ctx, cache.CategoryScope(a.Category))
		return nil
	}}
}
