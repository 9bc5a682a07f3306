package cache_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"newsroom/infrastructure/cache"
	"newsroom/infrastructure/configuration"
)

func TestInvalidator_ArticleAndCategory(t *testing.T) {
	var gotPaths []string
	var gotToken string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("x-revalidate-token")
		var body map[string][]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		gotPaths = body["paths"]
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	db, mock := redismock.NewClientMock()
	mock.ExpectDel(cache.ArticleSlugKey("ai-news"), cache.ArticleIDKey("a1")).SetVal(2)
	mock.ExpectScan(0, "listing:*category=tech:*", 100).SetVal([]string{"listing:status=:category=tech:limit=20:offset=0"}, 0)
	mock.ExpectDel("listing:status=:category=tech:limit=20:offset=0").SetVal(1)
	mock.ExpectScan(0, "listing:*category=:*", 100).SetVal([]string{}, 0)

	inv := cache.NewInvalidator(db, srv.Client(), configuration.Revalidate{URL: srv.URL, Token: "tok"})
	res := inv.Invalidate(context.Background(), cache.ArticleScope("a1", "ai-news"), cache.CategoryScope("tech"))

	assert.True(t, res.Revalidated)
	assert.Equal(t, "ai-news", res.Slug)
	assert.Equal(t, []string{"/articles/ai-news", "/category/tech"}, gotPaths)
	assert.Equal(t, "tok", gotToken)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInvalidator_SwallowsFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	db, mock := redismock.NewClientMock()
	mock.ExpectDel(cache.ArticleSlugKey("ai-news")).SetErr(errors.New("connection refused"))

	inv := cache.NewInvalidator(db, srv.Client(), configuration.Revalidate{URL: srv.URL})
	res := inv.Invalidate(context.Background(), cache.ArticleScope("", "ai-news"))

	assert.True(t, res.Revalidated)
	assert.Equal(t, "ai-news", res.Slug)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInvalidator_WithoutBackends(t *testing.T) {
	inv := cache.NewInvalidator(nil, nil, configuration.Revalidate{})
	res := inv.Invalidate(context.Background(), cache.GlobalScope())
	assert.True(t, res.Revalidated)
	assert.Empty(t, res.Slug)
}
