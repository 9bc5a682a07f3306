package http_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"newsroom/domain/model"
	"newsroom/infrastructure/cache"
	"newsroom/usecase"
)

type MockArticleUsecase struct {
	mock.Mock
}

func (m *MockArticleUsecase) GenerateFromURL(ctx context.Context, rawURL string) (*model.Article, error) {
	args := m.Called(ctx, rawURL)
	a, _ := args.Get(0).(*model.Article)
	return a, args.Error(1)
}

func (m *MockArticleUsecase) GenerateFromTopic(ctx context.Context, req usecase.TopicRequest) (*usecase.TopicResult, error) {
	args := m.Called(ctx, req)
	r, _ := args.Get(0).(*usecase.TopicResult)
	return r, args.Error(1)
}

func (m *MockArticleUsecase) Get(ctx context.Context, id string) (*model.Article, error) {
	args := m.Called(ctx, id)
	a, _ := args.Get(0).(*model.Article)
	return a, args.Error(1)
}

func (m *MockArticleUsecase) GetBySlug(ctx context.Context, slug string) (*model.Article, error) {
	args := m.Called(ctx, slug)
	a, _ := args.Get(0).(*model.Article)
	return a, args.Error(1)
}

func (m *MockArticleUsecase) List(ctx context.Context, filter model.ArticleFilter) ([]*model.Article, error) {
	args := m.Called(ctx, filter)
	list, _ := args.Get(0).([]*model.Article)
	return list, args.Error(1)
}

func (m *MockArticleUsecase) Update(ctx context.Context, id string, patch model.ArticlePatch) (*model.Article, error) {
	args := m.Called(ctx, id, patch)
	a, _ := args.Get(0).(*model.Article)
	return a, args.Error(1)
}

func (m *MockArticleUsecase) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockArticleUsecase) Extract(ctx context.Context, rawURL string) (*model.ExtractedContent, error) {
	args := m.Called(ctx, rawURL)
	c, _ := args.Get(0).(*model.ExtractedContent)
	return c, args.Error(1)
}

type MockPublishUsecase struct {
	mock.Mock
}

func (m *MockPublishUsecase) FinalizeAndPublish(ctx context.Context, articleID string) (*usecase.PublishResult, error) {
	args := m.Called(ctx, articleID)
	r, _ := args.Get(0).(*usecase.PublishResult)
	return r, args.Error(1)
}

type MockDistributionUsecase struct {
	mock.Mock
}

func (m *MockDistributionUsecase) Distribute(ctx context.Context, articleID string, platforms []string, autoPublish bool) (map[model.Platform]usecase.PlatformResult, error) {
	args := m.Called(ctx, articleID, platforms, autoPublish)
	r, _ := args.Get(0).(map[model.Platform]usecase.PlatformResult)
	return r, args.Error(1)
}

func (m *MockDistributionUsecase) ListPosts(ctx context.Context, articleID string) ([]*model.SocialPost, error) {
	args := m.Called(ctx, articleID)
	p, _ := args.Get(0).([]*model.SocialPost)
	return p, args.Error(1)
}

func (m *MockDistributionUsecase) PublishPost(ctx context.Context, postID string) (*model.SocialPost, error) {
	args := m.Called(ctx, postID)
	p, _ := args.Get(0).(*model.SocialPost)
	return p, args.Error(1)
}

type MockPlatformUsecase struct {
	mock.Mock
}

func (m *MockPlatformUsecase) SetToken(ctx context.Context, in usecase.PlatformTokenInput) (*model.PlatformToken, error) {
	args := m.Called(ctx, in)
	t, _ := args.Get(0).(*model.PlatformToken)
	return t, args.Error(1)
}

type MockInvalidator struct {
	mock.Mock
}

func (m *MockInvalidator) Invalidate(ctx context.Context, scopes ...cache.Scope) cache.InvalidationResult {
	args := m.Called(ctx, scopes)
	return args.Get(0).(cache.InvalidationResult)
}

var (
	_ usecase.IArticleUsecase      = (*MockArticleUsecase)(nil)
	_ usecase.IPublishUsecase      = (*MockPublishUsecase)(nil)
	_ usecase.IDistributionUsecase = (*MockDistributionUsecase)(nil)
	_ usecase.IPlatformUsecase     = (*MockPlatformUsecase)(nil)
	_ usecase.IInvalidator         = (*MockInvalidator)(nil)
)
