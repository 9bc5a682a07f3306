package usecase

import (
	"context"
	"fmt"

	"newsroom/domain/apperror"
	"newsroom/domain/model"
	"newsroom/domain/repository"
	"newsroom/infrastructure/cache"
	"newsroom/infrastructure/events"
	"newsroom/infrastructure/generator"
	"newsroom/infrastructure/logger"
	"newsroom/infrastructure/utils"
)

type TopicRequest struct {
	Prompt        string
	PublishStatus model.ArticleStatus
	PostSocial    bool
}

// TopicResult carries the created article and the outcome of the optional
// social distribution. A distribution failure never fails the creation.
type TopicResult struct {
	Article           *model.Article                    `json:"article"`
	Distribution      map[model.Platform]PlatformResult `json:"distribution,omitempty"`
	DistributionError string                            `json:"distributionError,omitempty"`
	SideEffects       []SideEffect                      `json:"sideEffects"`
}

type IArticleUsecase interface {
	GenerateFromURL(ctx context.Context, rawURL string) (*model.Article, error)
	GenerateFromTopic(ctx context.Context, req TopicRequest) (*TopicResult, error)
	Get(ctx context.Context, id string) (*model.Article, error)
	GetBySlug(ctx context.Context, slug string) (*model.Article, error)
	List(ctx context.Context, filter model.ArticleFilter) ([]*model.Article, error)
	Update(ctx context.Context, id string, patch model.ArticlePatch) (*model.Article, error)
	Delete(ctx context.Context, id string) error
	Extract(ctx context.Context, rawURL string) (*model.ExtractedContent, error)
}

type articleUsecase struct {
	articles         repository.IArticle
	posts            repository.ISocialPost
	extractor        IExtractor
	generator        generator.IGenerator
	cache            IArticleCache
	invalidator      IInvalidator
	events           events.Publisher
	distribution     IDistributionUsecase
	defaultPlatforms []string
}

func NewArticleUsecase(
	articles repository.IArticle,
	posts repository.ISocialPost,
	extractor IExtractor,
	gen generator.IGenerator,
	articleCache IArticleCache,
	invalidator IInvalidator,
	ev events.Publisher,
	distribution IDistributionUsecase,
	defaultPlatforms []string,
) IArticleUsecase {
	return &articleUsecase{
		articles:         articles,
		posts:            posts,
		extractor:        extractor,
		generator:        gen,
		cache:            articleCache,
		invalidator:      invalidator,
		events:           ev,
		distribution:     distribution,
		defaultPlatforms: defaultPlatforms,
	}
}

func (u *articleUsecase) GenerateFromURL(ctx context.Context, rawURL string) (*model.Article, error) {
	content, err := u.extractor.Extract(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	generated, err := u.generator.GenerateArticle(ctx, generator.ArticleInput{
		SourceText: content.TextContent,
		SourceURL:  rawURL,
		ImageURL:   content.LeadImage,
	})
	if err != nil {
		return nil, err
	}

	article := articleFrom(generated, model.ArticleStatusDraft)
	article.SourceURL = &rawURL
	created, err := u.articles.Create(ctx, article)
	if err != nil {
		return nil, err
	}
	u.invalidator.Invalidate(ctx, cache.CategoryScope(created.Category))
	logger.GetLogger().WithField("article_id", created.ID).WithField("source_url", rawURL).Info("Draft generated from URL")
	return created, nil
}

func (u *articleUsecase) GenerateFromTopic(ctx context.Context, req TopicRequest) (*TopicResult, error) {
	status := req.PublishStatus
	if status == "" {
		status = model.ArticleStatusDraft
	}
	if !status.Valid() {
		return nil, apperror.Validation(fmt.Sprintf("invalid publish status %q", req.PublishStatus))
	}

	generated, err := u.generator.GenerateArticle(ctx, generator.ArticleInput{Topic: req.Prompt})
	if err != nil {
		return nil, err
	}
	article := articleFrom(generated, status)
	if status == model.ArticleStatusPublished {
		now := utils.GetCurrentTime()
		article.PublishedAt = &now
	}
	created, err := u.articles.Create(ctx, article)
	if err != nil {
		return nil, err
	}
	logger.GetLogger().WithField("article_id", created.ID).WithField("status", created.Status).Info("Article generated from topic")

	result := &TopicResult{Article: created, SideEffects: []SideEffect{}}
	var tasks []sideTask
	if created.Status == model.ArticleStatusPublished {
		tasks = append(tasks, publishedSideTasks(created, u.invalidator, u.events)...)
	} else {
		tasks = append(tasks, listingSideTask(created, u.invalidator))
	}
	if req.PostSocial {
		tasks = append(tasks, sideTask{name: sideEffectDistribution, run: func(ctx context.Context) error {
			dist, err := u.distribution.Distribute(ctx, created.ID, u.defaultPlatforms, false)
			if err != nil {
				result.DistributionError = err.Error()
				return err
			}
			result.Distribution = dist
			return nil
		}})
	}
	result.SideEffects = runSideTasks(ctx, tasks...)
	return result, nil
}

func (u *articleUsecase) Get(ctx context.Context, id string) (*model.Article, error) {
	if a, ok := u.cache.GetByID(ctx, id); ok {
		return a, nil
	}
	a, err := u.articles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	u.cache.Set(ctx, a)
	return a, nil
}

func (u *articleUsecase) GetBySlug(ctx context.Context, slug string) (*model.Article, error) {
	if a, ok := u.cache.GetBySlug(ctx, slug); ok {
		return a, nil
	}
	a, err := u.articles.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	u.cache.Set(ctx, a)
	return a, nil
}

func (u *articleUsecase) List(ctx context.Context, filter model.ArticleFilter) ([]*model.Article, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, apperror.Validation(fmt.Sprintf("invalid status %q", filter.Status))
	}
	if list, ok := u.cache.GetList(ctx, filter); ok {
		return list, nil
	}
	list, err := u.articles.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	u.cache.SetList(ctx, filter, list)
	return list, nil
}

// Update applies a manual edit. Status may only move forward and entering
// published stamps published_at.
func (u *articleUsecase) Update(ctx context.Context, id string, patch model.ArticlePatch) (*model.Article, error) {
	if patch.Empty() {
		return nil, apperror.Validation("nothing to update")
	}
	current, err := u.articles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Status != nil {
		next := *patch.Status
		if !next.Valid() {
			return nil, apperror.Validation(fmt.Sprintf("invalid status %q", next))
		}
		if !current.Status.CanTransitionTo(next) {
			return nil, apperror.Validation(fmt.Sprintf("status cannot move from %s to %s", current.Status, next))
		}
		if next == model.ArticleStatusPublished && current.Status != model.ArticleStatusPublished {
			now := utils.GetCurrentTime()
			patch.PublishedAt = &now
		}
	}

	updated, err := u.articles.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	scopes := []cache.Scope{cache.ArticleScope(updated.ID, updated.Slug), cache.CategoryScope(updated.Category)}
	if current.Category != updated.Category {
		scopes = append(scopes, cache.CategoryScope(current.Category))
	}
	u.invalidator.Invalidate(ctx, scopes...)
	return updated, nil
}

// Delete removes the article's social posts, then the article, then its caches.
func (u *articleUsecase) Delete(ctx context.Context, id string) error {
	article, err := u.articles.GetByID(ctx, id)
	if err != nil {
		return err
	}
	removed, err := u.posts.DeleteByArticle(ctx, id)
	if err != nil {
		return err
	}
	if err := u.articles.Delete(ctx, id); err != nil {
		return err
	}
	logger.GetLogger().WithField("article_id", id).WithField("social_posts", removed).Info("Article deleted")
	u.invalidator.Invalidate(ctx, cache.ArticleScope(article.ID, article.Slug), cache.CategoryScope(article.Category), cache.GlobalScope())
	return nil
}

func (u *articleUsecase) Extract(ctx context.Context, rawURL string) (*model.ExtractedContent, error) {
	return u.extractor.Extract(ctx, rawURL)
}

func articleFrom(g *generator.GeneratedArticle, status model.ArticleStatus) *model.Article {
	a := &model.Article{
		Slug:     g.Slug,
		Title:    g.Title,
		Excerpt:  g.Excerpt,
		Body:     g.Body,
		Category: g.Category,
		Status:   status,
	}
	if g.ImageURL != "" {
		img := g.ImageURL
		a.MainImage = &img
	}
	return a
}
