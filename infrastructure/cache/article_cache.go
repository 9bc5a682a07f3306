package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"newsroom/domain/model"
	"newsroom/infrastructure/logger"
)

const (
	articleKeyPrefix = "article:"
	listingKeyPrefix = "listing:"
)

func ArticleIDKey(id string) string { return articleKeyPrefix + "id:" + id }
func ArticleSlugKey(slug string) string { return articleKeyPrefix + "slug:" + slug }

func ListingKey(f model.ArticleFilter) string {
	return fmt.Sprintf("%sstatus=%s:category=%s:limit=%d:offset=%d", listingKeyPrefix, f.Status, f.Category, f.Limit, f.Offset)
}

// ArticleCache is a read-through cache in front of the article store. A nil
// client turns every call into a miss.
type ArticleCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewArticleCache(client *redis.Client, ttl time.Duration) *ArticleCache {
	return &ArticleCache{client: client, ttl: ttl}
}

func (c *ArticleCache) GetByID(ctx context.Context, id string) (*model.Article, bool) {
	var a model.Article
	if !c.get(ctx, ArticleIDKey(id), &a) {
		return nil, false
	}
	return &a, true
}

func (c *ArticleCache) GetBySlug(ctx context.Context, slug string) (*model.Article, bool) {
	var a model.Article
	if !c.get(ctx, ArticleSlugKey(slug), &a) {
		return nil, false
	}
	return &a, true
}

func (c *ArticleCache) Set(ctx context.Context, a *model.Article) {
	if a == nil {
		return
	}
	c.set(ctx, ArticleIDKey(a.ID), a)
	c.set(ctx, ArticleSlugKey(a.Slug), a)
}

func (c *ArticleCache) GetList(ctx context.Context, f model.ArticleFilter) ([]*model.Article, bool) {
	var list []*model.Article
	if !c.get(ctx, ListingKey(f), &list) {
		return nil, false
	}
	return list, true
}

func (c *ArticleCache) SetList(ctx context.Context, f model.ArticleFilter, list []*model.Article) {
	c.set(ctx, ListingKey(f), list)
}

func (c *ArticleCache) get(ctx context.Context, key string, dst any) bool {
	if c == nil || c.client == nil {
		return false
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.GetLogger().WithField("key", key).WithField("error", err).Warn("Error while reading cache")
		}
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		logger.GetLogger().WithField("key", key).WithField("error", err).Warn("Discarding undecodable cache entry")
		return false
	}
	return true
}

func (c *ArticleCache) set(ctx context.Context, key string, value any) {
	if c == nil || c.client == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		logger.GetLogger().WithField("key", key).WithField("error", err).Error("Error while encoding cache entry")
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		logger.GetLogger().WithField("key", key).WithField("error", err).Warn("Error while writing cache")
	}
}
