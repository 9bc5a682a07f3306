package cache_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"newsroom/domain/model"
	"newsroom/infrastructure/cache"
)

func TestArticleCache_NilClientIsAlwaysMiss(t *testing.T) {
	c := cache.NewArticleCache(nil, time.Minute)
	c.Set(context.Background(), &model.Article{ID: "a1", Slug: "ai-news"})
	_, ok := c.GetByID(context.Background(), "a1")
	assert.False(t, ok)
}

func TestArticleCache_SetAndGet(t *testing.T) {
	db, mock := redismock.NewClientMock()
	c := cache.NewArticleCache(db, time.Minute)
	article := &model.Article{ID: "a1", Slug: "ai-news", Title: "AI News", Status: model.ArticleStatusDraft}
	raw, err := json.Marshal(article)
	require.NoError(t, err)

	mock.ExpectSet(cache.ArticleIDKey("a1"), raw, time.Minute).SetVal("OK")
	mock.ExpectSet(cache.ArticleSlugKey("ai-news"), raw, time.Minute).SetVal("OK")
	mock.ExpectGet(cache.ArticleSlugKey("ai-news")).SetVal(string(raw))
	mock.ExpectGet(cache.ArticleIDKey("missing")).RedisNil()

	c.Set(context.Background(), article)

	got, ok := c.GetBySlug(context.Background(), "ai-news")
	require.True(t, ok)
	assert.Equal(t, "AI News", got.Title)

	_, ok = c.GetByID(context.Background(), "missing")
	assert.False(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListingKey(t *testing.T) {
	key := cache.ListingKey(model.ArticleFilter{Status: model.ArticleStatusPublished, Category: "tech", Limit: 20})
	assert.Equal(t, "listing:status=published:category=tech:limit=20:offset=0", key)
}
