package usecase_test

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"newsroom/domain/apperror"
	"newsroom/domain/model"
	"newsroom/infrastructure/cache"
	"newsroom/infrastructure/generator"
	"newsroom/infrastructure/publisher"
	"newsroom/infrastructure/utils"
	"newsroom/usecase"
)

type MockArticleRepo struct {
	mock.Mock
}

func (m *MockArticleRepo) Create(ctx context.Context, a *model.Article) (*model.Article, error) {
	args := m.Called(ctx, a)
	out, _ := args.Get(0).(*model.Article)
	return out, args.Error(1)
}

func (m *MockArticleRepo) GetByID(ctx context.Context, id string) (*model.Article, error) {
	args := m.Called(ctx, id)
	out, _ := args.Get(0).(*model.Article)
	return out, args.Error(1)
}

func (m *MockArticleRepo) GetBySlug(ctx context.Context, slug string) (*model.Article, error) {
	args := m.Called(ctx, slug)
	out, _ := args.Get(0).(*model.Article)
	return out, args.Error(1)
}

func (m *MockArticleRepo) Update(ctx context.Context, id string, p model.ArticlePatch) (*model.Article, error) {
	args := m.Called(ctx, id, p)
	out, _ := args.Get(0).(*model.Article)
	return out, args.Error(1)
}

func (m *MockArticleRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockArticleRepo) List(ctx context.Context, f model.ArticleFilter) ([]*model.Article, error) {
	args := m.Called(ctx, f)
	out, _ := args.Get(0).([]*model.Article)
	return out, args.Error(1)
}

type MockSocialPostRepo struct {
	mock.Mock
}

func (m *MockSocialPostRepo) Create(ctx context.Context, p *model.SocialPost) (*model.SocialPost, error) {
	args := m.Called(ctx, p)
	if fn, ok := args.Get(0).(func(context.Context, *model.SocialPost) *model.SocialPost); ok {
		return fn(ctx, p), args.Error(1)
	}
	out, _ := args.Get(0).(*model.SocialPost)
	return out, args.Error(1)
}

func (m *MockSocialPostRepo) GetByID(ctx context.Context, id string) (*model.SocialPost, error) {
	args := m.Called(ctx, id)
	out, _ := args.Get(0).(*model.SocialPost)
	return out, args.Error(1)
}

func (m *MockSocialPostRepo) ListByArticle(ctx context.Context, articleID string) ([]*model.SocialPost, error) {
	args := m.Called(ctx, articleID)
	out, _ := args.Get(0).([]*model.SocialPost)
	return out, args.Error(1)
}

func (m *MockSocialPostRepo) MarkPosted(ctx context.Context, id, ref string) (*model.SocialPost, error) {
	args := m.Called(ctx, id, ref)
	out, _ := args.Get(0).(*model.SocialPost)
	return out, args.Error(1)
}

func (m *MockSocialPostRepo) MarkFailed(ctx context.Context, id, msg string) (*model.SocialPost, error) {
	args := m.Called(ctx, id, msg)
	out, _ := args.Get(0).(*model.SocialPost)
	return out, args.Error(1)
}

func (m *MockSocialPostRepo) DeleteByArticle(ctx context.Context, articleID string) (int64, error) {
	args := m.Called(ctx, articleID)
	return args.Get(0).(int64), args.Error(1)
}

type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) GenerateArticle(ctx context.Context, in generator.ArticleInput) (*generator.GeneratedArticle, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*generator.GeneratedArticle)
	return out, args.Error(1)
}

func (m *MockGenerator) GenerateSocialPost(ctx context.Context, in generator.SocialInput) (string, error) {
	args := m.Called(ctx, in)
	return args.String(0), args.Error(1)
}

func (m *MockGenerator) Refine(ctx context.Context, a *model.Article) (*generator.GeneratedArticle, error) {
	args := m.Called(ctx, a)
	out, _ := args.Get(0).(*generator.GeneratedArticle)
	return out, args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, d publisher.Delivery) (string, error) {
	args := m.Called(ctx, d)
	return args.String(0), args.Error(1)
}

type MockEvents struct {
	mock.Mock
}

func (m *MockEvents) PublishArticlePublished(ctx context.Context, e model.ArticlePublishedEvent) error {
	return m.Called(ctx, e).Error(0)
}

func (m *MockEvents) Close() error { return nil }

type MockInvalidator struct {
	mock.Mock
}

func (m *MockInvalidator) Invalidate(ctx context.Context, scopes ...cache.Scope) cache.InvalidationResult {
	m.Called(ctx, scopes)
	return cache.InvalidationResult{Revalidated: true}
}

type MockExtractor struct {
	mock.Mock
}

func (m *MockExtractor) Extract(ctx context.Context, rawURL string) (*model.ExtractedContent, error) {
	args := m.Called(ctx, rawURL)
	out, _ := args.Get(0).(*model.ExtractedContent)
	return out, args.Error(1)
}

type MockDistribution struct {
	mock.Mock
}

func (m *MockDistribution) Distribute(ctx context.Context, articleID string, platforms []string, autoPublish bool) (map[model.Platform]usecase.PlatformResult, error) {
	args := m.Called(ctx, articleID, platforms, autoPublish)
	out, _ := args.Get(0).(map[model.Platform]usecase.PlatformResult)
	return out, args.Error(1)
}

func (m *MockDistribution) ListPosts(ctx context.Context, articleID string) ([]*model.SocialPost, error) {
	args := m.Called(ctx, articleID)
	out, _ := args.Get(0).([]*model.SocialPost)
	return out, args.Error(1)
}

func (m *MockDistribution) PublishPost(ctx context.Context, postID string) (*model.SocialPost, error) {
	args := m.Called(ctx, postID)
	out, _ := args.Get(0).(*model.SocialPost)
	return out, args.Error(1)
}

type recordingHub struct {
	mu     sync.Mutex
	events []model.SocialPost
}

func (h *recordingHub) BroadcastPostStatus(post *model.SocialPost) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, *post)
}

func (h *recordingHub) statuses(platform model.Platform) []model.SocialPostStatus {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []model.SocialPostStatus
	for _, e := range h.events {
		if e.Platform == platform {
			out = append(out, e.Status)
		}
	}
	return out
}

// memArticles is an in-memory article store.
type memArticles struct {
	mu   sync.Mutex
	rows map[string]model.Article
}

func newMemArticles() *memArticles {
	return &memArticles{rows: map[string]model.Article{}}
}

func (r *memArticles) Create(ctx context.Context, a *model.Article) (*model.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := *a
	out.ID = uuid.NewString()
	out.CreatedAt = utils.GetCurrentTime()
	out.UpdatedAt = out.CreatedAt
	r.rows[out.ID] = out
	return &out, nil
}

func (r *memArticles) GetByID(ctx context.Context, id string) (*model.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.rows[id]
	if !ok {
		return nil, apperror.NotFound("article " + id)
	}
	return &a, nil
}

func (r *memArticles) GetBySlug(ctx context.Context, slug string) (*model.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.rows {
		if a.Slug == slug {
			return &a, nil
		}
	}
	return nil, apperror.NotFound("article with slug " + slug)
}

func (r *memArticles) Update(ctx context.Context, id string, p model.ArticlePatch) (*model.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.rows[id]
	if !ok {
		return nil, apperror.NotFound("article " + id)
	}
	if p.Title != nil {
		a.Title = *p.Title
	}
	if p.Excerpt != nil {
		a.Excerpt = *p.Excerpt
	}
	if p.Body != nil {
		a.Body = *p.Body
	}
	if p.Category != nil {
		a.Category = *p.Category
	}
	if p.Status != nil {
		a.Status = *p.Status
	}
	if p.MainImage != nil {
		a.MainImage = p.MainImage
	}
	if p.PublishedAt != nil {
		a.PublishedAt = p.PublishedAt
	}
	a.UpdatedAt = utils.GetCurrentTime()
	r.rows[id] = a
	return &a, nil
}

func (r *memArticles) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return apperror.NotFound("article " + id)
	}
	delete(r.rows, id)
	return nil
}

func (r *memArticles) List(ctx context.Context, f model.ArticleFilter) ([]*model.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Article
	for _, a := range r.rows {
		if (f.Status == "" || a.Status == f.Status) && (f.Category == "" || a.Category == f.Category) {
			a := a
			out = append(out, &a)
		}
	}
	return out, nil
}
