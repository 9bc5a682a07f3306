package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"newsroom/infrastructure/configuration"
	"newsroom/infrastructure/logger"
	"newsroom/infrastructure/metrics"
)

type ScopeKind string

const (
	ScopeGlobal   ScopeKind = "global"
	ScopeArticle  ScopeKind = "article"
	ScopeCategory ScopeKind = "category"
)

type Scope struct {
	Kind      ScopeKind
	Slug      string
	ArticleID string
	Category  string
}

func GlobalScope() Scope { return Scope{Kind: ScopeGlobal} }
func ArticleScope(id, slug string) Scope { return Scope{Kind: ScopeArticle, ArticleID: id, Slug: slug} }
func CategoryScope(category string) Scope { return Scope{Kind: ScopeCategory, Category: category} }

type InvalidationResult struct {
	Revalidated bool   `json:"revalidated"`
	Slug        string `json:"slug,omitempty"`
}

// Invalidator busts cached article data in Redis and asks the hosting
// platform to regenerate the affected pages. It is best effort: failures are
// logged and never returned.
type Invalidator struct {
	client     *redis.Client
	httpClient *http.Client
	webhookURL string
	token      string
}

func NewInvalidator(client *redis.Client, httpClient *http.Client, cfg configuration.Revalidate) *Invalidator {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Invalidator{client: client, httpClient: httpClient, webhookURL: cfg.URL, token: cfg.Token}
}

func (i *Invalidator) Invalidate(ctx context.Context, scopes ...Scope) InvalidationResult {
	res := InvalidationResult{Revalidated: true}
	paths := make([]string, 0, len(scopes))
	for _, s := range scopes {
		if s.Kind == ScopeArticle && res.Slug == "" {
			res.Slug = s.Slug
		}
		err := i.purgeKeys(ctx, s)
		metrics.CacheInvalidations.WithLabelValues(string(s.Kind), metrics.Outcome(err)).Inc()
		if err != nil {
			logger.GetLogger().WithField("scope", s.Kind).WithField("error", err).Warn("Cache purge failed")
		}
		paths = append(paths, pathsFor(s)...)
	}
	if err := i.notify(ctx, paths); err != nil {
		logger.GetLogger().WithField("paths", paths).WithField("error", err).Warn("Revalidate webhook failed")
	}
	return res
}

func (i *Invalidator) purgeKeys(ctx context.Context, s Scope) error {
	if i.client == nil {
		return nil
	}
	switch s.Kind {
	case ScopeGlobal:
		if err := i.deletePattern(ctx, articleKeyPrefix+"*"); err != nil {
			return err
		}
		return i.deletePattern(ctx, listingKeyPrefix+"*")
	case ScopeArticle:
		keys := []string{}
		if s.Slug != "" {
			keys = append(keys, ArticleSlugKey(s.Slug))
		}
		if s.ArticleID != "" {
			keys = append(keys, ArticleIDKey(s.ArticleID))
		}
		if len(keys) == 0 {
			return nil
		}
		return i.client.Del(ctx, keys...).Err()
	case ScopeCategory:
		if err := i.deletePattern(ctx, fmt.Sprintf("%s*category=%s:*", listingKeyPrefix, s.Category)); err != nil {
			return err
		}
		// unfiltered listings include every category
		return i.deletePattern(ctx, listingKeyPrefix+"*category=:*")
	default:
		return fmt.Errorf("unknown scope %q", s.Kind)
	}
}

func (i *Invalidator) deletePattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, next, err := i.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := i.client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

func pathsFor(s Scope) []string {
	switch s.Kind {
	case ScopeArticle:
		if s.Slug == "" {
			return nil
		}
		return []string{"/articles/" + s.Slug}
	case ScopeCategory:
		if s.Category == "" {
			return []string{"/"}
		}
		return []string{"/category/" + s.Category}
	default:
		return []string{"/"}
	}
}

func (i *Invalidator) notify(ctx context.Context, paths []string) error {
	if i.webhookURL == "" || len(paths) == 0 {
		return nil
	}
	payload, err := json.Marshal(map[string][]string{"paths": paths})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, i.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if i.token != "" {
		req.Header.Set("x-revalidate-token", i.token)
	}
	resp, err := i.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("revalidate returned %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
