package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"newsroom/domain/apperror"
	"newsroom/domain/model"
	"newsroom/infrastructure/generator"
	"newsroom/infrastructure/publisher"
	"newsroom/usecase"
)

const baseURL = "https://news.example.com"

func publishedArticle() *model.Article {
	now := time.Now().UTC()
	img := "https://cdn.example.com/ai.jpg"
	return &model.Article{
		ID:          "a-1",
		Slug:        "ai-news",
		Title:       "AI News",
		Excerpt:     "Things happened.",
		Body:        "Body",
		Category:    "technology",
		Status:      model.ArticleStatusPublished,
		MainImage:   &img,
		PublishedAt: &now,
	}
}

func forPlatform(p model.Platform) interface{} {
	return mock.MatchedBy(func(in generator.SocialInput) bool { return in.Platform == p })
}

func storesPost(posts *MockSocialPostRepo) {
	posts.On("Create", mock.Anything, mock.AnythingOfType("*model.SocialPost")).
		Return(func(ctx context.Context, p *model.SocialPost) *model.SocialPost {
			out := *p
			out.ID = "post-" + string(p.Platform)
			return &out
		}, nil)
}

func TestDistribute_IsolatesPlatformFailure(t *testing.T) {
	articles := new(MockArticleRepo)
	posts := new(MockSocialPostRepo)
	gen := new(MockGenerator)
	hub := &recordingHub{}

	articles.On("GetByID", mock.Anything, "a-1").Return(publishedArticle(), nil).Once()
	gen.On("GenerateSocialPost", mock.Anything, forPlatform(model.PlatformFacebook)).Return("FB text\n\n"+baseURL+"/articles/ai-news", nil).Once()
	gen.On("GenerateSocialPost", mock.Anything, forPlatform(model.PlatformInstagram)).Return("", apperror.Generation("model unavailable", nil)).Once()
	gen.On("GenerateSocialPost", mock.Anything, forPlatform(model.PlatformX)).Return("X text\n"+baseURL+"/articles/ai-news", nil).Once()
	storesPost(posts)

	uc := usecase.NewDistributionUsecase(articles, posts, gen, new(MockPublisher), hub, baseURL)
	results, err := uc.Distribute(context.Background(), "a-1", []string{"facebook", "instagram", "x"}, false)

	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "post-facebook", results[model.PlatformFacebook].PostID)
	assert.Equal(t, model.SocialPostPending, results[model.PlatformFacebook].Status)
	assert.Empty(t, results[model.PlatformFacebook].Error)
	assert.Equal(t, "post-x", results[model.PlatformX].PostID)
	assert.Empty(t, results[model.PlatformInstagram].PostID)
	assert.Contains(t, results[model.PlatformInstagram].Error, "model unavailable")

	posts.AssertNumberOfCalls(t, "Create", 2)
	assert.Equal(t, []model.SocialPostStatus{model.SocialPostPending}, hub.statuses(model.PlatformX))
	gen.AssertExpectations(t)
}

func TestDistribute_AutoPublishRecordsOutcome(t *testing.T) {
	articles := new(MockArticleRepo)
	posts := new(MockSocialPostRepo)
	gen := new(MockGenerator)
	pub := new(MockPublisher)
	hub := &recordingHub{}
	posted := time.Now().UTC()
	ref := "123_456"
	msg := "x returned status 403"

	articles.On("GetByID", mock.Anything, "a-1").Return(publishedArticle(), nil).Once()
	gen.On("GenerateSocialPost", mock.Anything, mock.Anything).Return("text", nil)
	storesPost(posts)
	pub.On("Publish", mock.Anything, mock.MatchedBy(func(d publisher.Delivery) bool {
		return d.Post.Platform == model.PlatformFacebook && d.Link == baseURL+"/articles/ai-news"
	})).Return(ref, nil).Once()
	pub.On("Publish", mock.Anything, mock.MatchedBy(func(d publisher.Delivery) bool {
		return d.Post.Platform == model.PlatformX
	})).Return("", apperror.Upstream(msg, nil)).Once()
	posts.On("MarkPosted", mock.Anything, "post-facebook", ref).
		Return(&model.SocialPost{ID: "post-facebook", ArticleID: "a-1", Platform: model.PlatformFacebook, Status: model.SocialPostPosted, PostedAt: &posted, ExternalRef: &ref}, nil).Once()
	posts.On("MarkFailed", mock.Anything, "post-x", msg).
		Return(&model.SocialPost{ID: "post-x", ArticleID: "a-1", Platform: model.PlatformX, Status: model.SocialPostFailed, ErrorMessage: &msg}, nil).Once()

	uc := usecase.NewDistributionUsecase(articles, posts, gen, pub, hub, baseURL)
	results, err := uc.Distribute(context.Background(), "a-1", []string{"facebook", "twitter", "x"}, true)

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, model.SocialPostPosted, results[model.PlatformFacebook].Status)
	assert.Equal(t, &ref, results[model.PlatformFacebook].ExternalRef)
	assert.Equal(t, model.SocialPostFailed, results[model.PlatformX].Status)
	assert.Equal(t, msg, results[model.PlatformX].Error)
	assert.Equal(t, []model.SocialPostStatus{model.SocialPostPending, model.SocialPostPosted}, hub.statuses(model.PlatformFacebook))
	pub.AssertExpectations(t)
	posts.AssertExpectations(t)
}

func TestDistribute_Validation(t *testing.T) {
	articles := new(MockArticleRepo)
	draft := publishedArticle()
	draft.Status = model.ArticleStatusDraft
	draft.PublishedAt = nil
	articles.On("GetByID", mock.Anything, "draft").Return(draft, nil)
	articles.On("GetByID", mock.Anything, "missing").Return(nil, apperror.NotFound("article missing"))

	uc := usecase.NewDistributionUsecase(articles, new(MockSocialPostRepo), new(MockGenerator), new(MockPublisher), nil, baseURL)

	_, err := uc.Distribute(context.Background(), "draft", []string{"facebook"}, false)
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	_, err = uc.Distribute(context.Background(), "missing", []string{"facebook"}, false)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	_, err = uc.Distribute(context.Background(), "draft", nil, false)
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	_, err = uc.Distribute(context.Background(), "draft", []string{"myspace"}, false)
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestDistribute_StoreFailureIsPerPlatform(t *testing.T) {
	articles := new(MockArticleRepo)
	posts := new(MockSocialPostRepo)
	gen := new(MockGenerator)

	articles.On("GetByID", mock.Anything, "a-1").Return(publishedArticle(), nil).Once()
	gen.On("GenerateSocialPost", mock.Anything, mock.Anything).Return("text", nil)
	posts.On("Create", mock.Anything, mock.MatchedBy(func(p *model.SocialPost) bool { return p.Platform == model.PlatformFacebook })).
		Return(nil, apperror.Internal("insert social post", errors.New("connection reset"))).Once()
	posts.On("Create", mock.Anything, mock.MatchedBy(func(p *model.SocialPost) bool { return p.Platform == model.PlatformX })).
		Return(&model.SocialPost{ID: "post-x", Platform: model.PlatformX, Status: model.SocialPostPending}, nil).Once()

	uc := usecase.NewDistributionUsecase(articles, posts, gen, new(MockPublisher), nil, baseURL)
	results, err := uc.Distribute(context.Background(), "a-1", []string{"facebook", "x"}, false)

	require.NoError(t, err)
	assert.Contains(t, results[model.PlatformFacebook].Error, "connection reset")
	assert.Equal(t, "text", results[model.PlatformFacebook].Content)
	assert.Equal(t, "post-x", results[model.PlatformX].PostID)
}

func TestPublishPost(t *testing.T) {
	articles := new(MockArticleRepo)
	posts := new(MockSocialPostRepo)
	pub := new(MockPublisher)
	ref := "1800"

	articles.On("GetByID", mock.Anything, "a-1").Return(publishedArticle(), nil)
	posts.On("GetByID", mock.Anything, "done").Return(&model.SocialPost{ID: "done", ArticleID: "a-1", Status: model.SocialPostPosted}, nil)
	posts.On("GetByID", mock.Anything, "retry").Return(&model.SocialPost{ID: "retry", ArticleID: "a-1", Platform: model.PlatformX, Status: model.SocialPostFailed}, nil)
	pub.On("Publish", mock.Anything, mock.Anything).Return(ref, nil).Once()
	posts.On("MarkPosted", mock.Anything, "retry", ref).
		Return(&model.SocialPost{ID: "retry", ArticleID: "a-1", Platform: model.PlatformX, Status: model.SocialPostPosted, ExternalRef: &ref}, nil).Once()

	uc := usecase.NewDistributionUsecase(articles, posts, new(MockGenerator), pub, nil, baseURL)

	_, err := uc.PublishPost(context.Background(), "done")
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	post, err := uc.PublishPost(context.Background(), "retry")
	require.NoError(t, err)
	assert.Equal(t, model.SocialPostPosted, post.Status)
	pub.AssertExpectations(t)
}

func TestListPosts(t *testing.T) {
	articles := new(MockArticleRepo)
	posts := new(MockSocialPostRepo)
	articles.On("GetByID", mock.Anything, "a-1").Return(publishedArticle(), nil).Once()
	articles.On("GetByID", mock.Anything, "nope").Return(nil, apperror.NotFound("article nope")).Once()
	posts.On("ListByArticle", mock.Anything, "a-1").Return([]*model.SocialPost{{ID: "p1"}}, nil).Once()

	uc := usecase.NewDistributionUsecase(articles, posts, new(MockGenerator), new(MockPublisher), nil, baseURL)

	list, err := uc.ListPosts(context.Background(), "a-1")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = uc.ListPosts(context.Background(), "nope")
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}
