package extractor_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"newsroom/domain/apperror"
	"newsroom/infrastructure/configuration"
	"newsroom/infrastructure/extractor"
)

const articlePage = `<!doctype html>
<html><head>
<title>Fallback title</title>
<meta property="og:title" content="Chips get smaller again">
<meta property="og:site_name" content="Tech Daily">
<meta property="og:image" content="https://cdn.example.com/chip.jpg">
<meta name="author" content="Ada Lovelace">
</head><body>
<nav><a href="/">Home</a><a href="/world">World</a></nav>
<div class="ads">Buy now! Limited offer on everything.</div>
<article>
  <h1>Chips get smaller again</h1>
  <p>Semiconductor makers announced on Tuesday a new manufacturing process that shrinks transistors further than analysts expected.</p>
  <p>The change promises lower power draw for phones and laptops, and it arrives sooner than the industry roadmap suggested last year.</p>
  <div class="share-buttons">Share on every network you can think of</div>
  <p>Production is expected to ramp up over the next eighteen months across three fabrication plants.</p>
</article>
<footer>Copyright Tech Daily</footer>
</body></html>`

func newExtractor(client *http.Client) *extractor.Extractor {
	return extractor.New(client, configuration.Extractor{UserAgent: "Mozilla/5.0 test", Timeout: 5 * time.Second})
}

func TestExtract_ArticlePage(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(articlePage))
	}))
	defer srv.Close()

	res, err := newExtractor(srv.Client()).Extract(context.Background(), srv.URL+"/story")

	require.NoError(t, err)
	assert.Equal(t, "Mozilla/5.0 test", gotUA)
	assert.Equal(t, "Chips get smaller again", res.Title)
	assert.Equal(t, "Ada Lovelace", res.Byline)
	assert.Equal(t, "Tech Daily", res.SiteName)
	assert.Equal(t, "https://cdn.example.com/chip.jpg", res.LeadImage)
	assert.Equal(t, srv.URL+"/story", res.SourceURL)
	assert.Contains(t, res.TextContent, "Semiconductor makers announced")
	assert.Contains(t, res.TextContent, "three fabrication plants")
	assert.NotContains(t, res.TextContent, "Buy now")
	assert.NotContains(t, res.TextContent, "Share on every network")
	assert.NotContains(t, res.TextContent, "Home")
}

func TestExtract_FallsBackToDensestContainer(t *testing.T) {
	para := strings.Repeat("Long form reporting about city budgets and transit. ", 6)
	page := `<html><head><title>City budget</title></head><body>
<div class="sidebar"><p>Short teaser</p></div>
<div class="story"><p>` + para + `</p><p>` + para + `</p></div>
</body></html>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(page))
	}))
	defer srv.Close()

	res, err := newExtractor(srv.Client()).Extract(context.Background(), srv.URL)

	require.NoError(t, err)
	assert.Equal(t, "City budget", res.Title)
	assert.NotContains(t, res.TextContent, "Short teaser")
	assert.NotEmpty(t, res.SiteName)
}

func TestExtract_NonSuccessStatusIsUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := newExtractor(srv.Client()).Extract(context.Background(), srv.URL)

	require.Error(t, err)
	assert.Equal(t, apperror.KindUpstream, apperror.KindOf(err))
}

func TestExtract_EmptyPageIsExtractionError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><nav>Menu</nav><p>Hi.</p></body></html>`))
	}))
	defer srv.Close()

	_, err := newExtractor(srv.Client()).Extract(context.Background(), srv.URL)

	require.Error(t, err)
	assert.Equal(t, apperror.KindExtraction, apperror.KindOf(err))
}

func TestExtract_UnreachableHostIsUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	target := srv.URL
	srv.Close()

	_, err := newExtractor(&http.Client{Timeout: time.Second}).Extract(context.Background(), target)

	require.Error(t, err)
	assert.Equal(t, apperror.KindUpstream, apperror.KindOf(err))
}

func TestExtract_RejectsNonHTTPURL(t *testing.T) {
	_, err := newExtractor(nil).Extract(context.Background(), "ftp://example.com/file")
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}
