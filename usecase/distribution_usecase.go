package usecase

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"newsroom/domain/apperror"
	"newsroom/domain/model"
	"newsroom/domain/repository"
	"newsroom/infrastructure/generator"
	"newsroom/infrastructure/logger"
	"newsroom/infrastructure/metrics"
	"newsroom/infrastructure/publisher"
)

const maxConcurrentPlatforms = 3

// PlatformResult is the per-platform outcome of a distribution run. Error is
// set when the platform failed at any step.
type PlatformResult struct {
	PostID      string                 `json:"postId,omitempty"`
	Status      model.SocialPostStatus `json:"status,omitempty"`
	Content     string                 `json:"content,omitempty"`
	ExternalRef *string                `json:"externalRef,omitempty"`
	Error       string                 `json:"error,omitempty"`
}

type IDistributionUsecase interface {
	Distribute(ctx context.Context, articleID string, platforms []string, autoPublish bool) (map[model.Platform]PlatformResult, error)
	ListPosts(ctx context.Context, articleID string) ([]*model.SocialPost, error)
	PublishPost(ctx context.Context, postID string) (*model.SocialPost, error)
}

type distributionUsecase struct {
	articles      repository.IArticle
	posts         repository.ISocialPost
	generator     generator.IGenerator
	publisher     publisher.Publisher
	hub           IStatusBroadcaster
	publicBaseURL string
}

func NewDistributionUsecase(
	articles repository.IArticle,
	posts repository.ISocialPost,
	gen generator.IGenerator,
	pub publisher.Publisher,
	hub IStatusBroadcaster,
	publicBaseURL string,
) IDistributionUsecase {
	return &distributionUsecase{
		articles:      articles,
		posts:         posts,
		generator:     gen,
		publisher:     pub,
		hub:           hub,
		publicBaseURL: publicBaseURL,
	}
}

// Distribute generates, stores and optionally publishes one post per platform.
// Platforms are isolated from each other: a failure is recorded in that
// platform's result and never returned as an error.
func (u *distributionUsecase) Distribute(ctx context.Context, articleID string, platforms []string, autoPublish bool) (map[model.Platform]PlatformResult, error) {
	targets, err := parsePlatforms(platforms)
	if err != nil {
		return nil, err
	}
	article, err := u.articles.GetByID(ctx, articleID)
	if err != nil {
		return nil, err
	}
	if article.Status != model.ArticleStatusPublished {
		return nil, apperror.Validation(fmt.Sprintf("article %s is %s, only published articles can be distributed", article.ID, article.Status))
	}

	var (
		mu      sync.Mutex
		results = make(map[model.Platform]PlatformResult, len(targets))
		g       errgroup.Group
	)
	g.SetLimit(maxConcurrentPlatforms)
	for _, platform := range targets {
		g.Go(func() error {
			res := u.distributeOne(ctx, article, platform, autoPublish)
			mu.Lock()
			results[platform] = res
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return results, nil
}

func (u *distributionUsecase) distributeOne(ctx context.Context, article *model.Article, platform model.Platform, autoPublish bool) (res PlatformResult) {
	lg := logger.GetLogger().WithField("article_id", article.ID).WithField("platform", platform)
	defer func() {
		if r := recover(); r != nil {
			res = PlatformResult{Error: fmt.Sprintf("panic: %v", r)}
			lg.WithField("panic", r).Error("Distribution branch panicked")
		}
		outcome := string(res.Status)
		if res.Status == "" {
			outcome = "error"
		}
		metrics.DistributionResults.WithLabelValues(string(platform), outcome).Inc()
	}()

	link := articleURL(u.publicBaseURL, article.Slug)
	content, err := u.generator.GenerateSocialPost(ctx, generator.SocialInput{
		Title:    article.Title,
		Excerpt:  article.Excerpt,
		URL:      link,
		Platform: platform,
	})
	if err != nil {
		lg.WithField("error", err).Warn("Social post generation failed")
		return PlatformResult{Error: err.Error()}
	}

	post, err := u.posts.Create(ctx, &model.SocialPost{
		ArticleID: article.ID,
		Platform:  platform,
		Content:   content,
		Status:    model.SocialPostPending,
	})
	if err != nil {
		lg.WithField("error", err).Error("Error while storing social post")
		return PlatformResult{Content: content, Error: err.Error()}
	}
	u.broadcast(post)

	if autoPublish {
		var pubErr error
		post, pubErr = u.deliver(ctx, post, article)
		if pubErr != nil {
			return resultOf(post, pubErr)
		}
	}
	return resultOf(post, nil)
}

func (u *distributionUsecase) ListPosts(ctx context.Context, articleID string) ([]*model.SocialPost, error) {
	if _, err := u.articles.GetByID(ctx, articleID); err != nil {
		return nil, err
	}
	return u.posts.ListByArticle(ctx, articleID)
}

// PublishPost pushes a pending or failed post to its platform.
func (u *distributionUsecase) PublishPost(ctx context.Context, postID string) (*model.SocialPost, error) {
	post, err := u.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.Status == model.SocialPostPosted {
		return nil, apperror.Validation(fmt.Sprintf("social post %s is already posted", post.ID))
	}
	article, err := u.articles.GetByID(ctx, post.ArticleID)
	if err != nil {
		return nil, err
	}
	if article.Status != model.ArticleStatusPublished {
		return nil, apperror.Validation(fmt.Sprintf("article %s is not published", article.ID))
	}
	post, err = u.deliver(ctx, post, article)
	metrics.DistributionResults.WithLabelValues(string(post.Platform), string(post.Status)).Inc()
	return post, err
}

// deliver publishes the post and records the outcome. It returns the latest
// known row together with the publish error, if any.
func (u *distributionUsecase) deliver(ctx context.Context, post *model.SocialPost, article *model.Article) (*model.SocialPost, error) {
	lg := logger.GetLogger().WithField("post_id", post.ID).WithField("platform", post.Platform)

	ref, pubErr := u.publisher.Publish(ctx, publisher.Delivery{
		Post:    post,
		Article: article,
		Link:    articleURL(u.publicBaseURL, article.Slug),
	})

	var (
		updated *model.SocialPost
		err     error
	)
	if pubErr != nil {
		lg.WithField("error", pubErr).Warn("Publishing social post failed")
		updated, err = u.posts.MarkFailed(ctx, post.ID, pubErr.Error())
	} else {
		updated, err = u.posts.MarkPosted(ctx, post.ID, ref)
	}
	if err != nil {
		lg.WithField("error", err).Error("Error while recording publish outcome")
		if pubErr == nil {
			pubErr = err
		}
		return post, pubErr
	}
	u.broadcast(updated)
	return updated, pubErr
}

func (u *distributionUsecase) broadcast(post *model.SocialPost) {
	if u.hub != nil {
		u.hub.BroadcastPostStatus(post)
	}
}

func resultOf(post *model.SocialPost, err error) PlatformResult {
	res := PlatformResult{
		PostID:      post.ID,
		Status:      post.Status,
		Content:     post.Content,
		ExternalRef: post.ExternalRef,
	}
	if err != nil {
		res.Error = err.Error()
	}
	return res
}

// parsePlatforms validates and de-duplicates platform names, keeping order.
func parsePlatforms(raw []string) ([]model.Platform, error) {
	if len(raw) == 0 {
		return nil, apperror.Validation("at least one platform is required")
	}
	seen := make(map[model.Platform]struct{}, len(raw))
	out := make([]model.Platform, 0, len(raw))
	for _, s := range raw {
		p, ok := model.ParsePlatform(s)
		if !ok {
			return nil, apperror.Validation(fmt.Sprintf("unsupported platform %q", s))
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out, nil
}
