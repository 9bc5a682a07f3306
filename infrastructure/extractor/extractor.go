package extractor

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"newsroom/domain/apperror"
	"newsroom/domain/model"
	"newsroom/infrastructure/configuration"
	"newsroom/infrastructure/logger"
)

const (
	minContentLength = 200
	maxBodyBytes     = 5 << 20
)

var boilerplateSelectors = strings.Join([]string{
	"script", "style", "noscript", "iframe", "form", "svg",
	"nav", "header", "footer", "aside",
	"[role=navigation]", "[role=banner]", "[role=contentinfo]", "[aria-hidden=true]",
	".ad", ".ads", ".advert", ".advertisement", "[class*=sponsor]",
	"[class*=share]", "[class*=social]", "[class*=comment]", "[class*=related]",
	"[class*=newsletter]", "[class*=cookie]", "[class*=promo]",
}, ", ")

const contentSelectors = "p, h2, h3, h4, li, blockquote, pre"

// Extractor fetches a page and reduces it to its article text.
type Extractor struct {
	client    *http.Client
	userAgent string
}

func New(client *http.Client, cfg configuration.Extractor) *Extractor {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &Extractor{client: client, userAgent: cfg.UserAgent}
}

func (e *Extractor) Extract(ctx context.Context, rawURL string) (*model.ExtractedContent, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, apperror.Validation("url must be an absolute http(s) URL")
	}

	doc, err := e.fetchDocument(ctx, u.String())
	if err != nil {
		return nil, err
	}

	out := &model.ExtractedContent{
		Title:     firstNonEmpty(metaContent(doc, `meta[property="og:title"]`), doc.Find("title").First().Text(), doc.Find("h1").First().Text()),
		Byline:    firstNonEmpty(metaContent(doc, `meta[name="author"]`), doc.Find(`[rel="author"]`).First().Text(), doc.Find(".byline, .author").First().Text()),
		SiteName:  firstNonEmpty(metaContent(doc, `meta[property="og:site_name"]`), u.Hostname()),
		LeadImage: metaContent(doc, `meta[property="og:image"]`),
		SourceURL: u.String(),
	}

	doc.Find(boilerplateSelectors).Remove()
	out.TextContent = textOf(contentRoot(doc))
	if len([]rune(out.TextContent)) < minContentLength {
		logger.GetLogger().WithField("url", out.SourceURL).WithField("length", len(out.TextContent)).Warn("Extraction yielded no usable content")
		return nil, apperror.Extraction("no readable article content found at " + out.SourceURL)
	}
	if out.Title == "" {
		out.Title = out.SiteName
	}
	return out, nil
}

func (e *Extractor) fetchDocument(ctx context.Context, target string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, apperror.Validation("invalid url: " + err.Error())
	}
	// Some publishers reject anything that does not look like a browser.
	req.Header.Set("User-Agent", e.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, apperror.Upstream("fetching "+target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apperror.Upstream(fmt.Sprintf("fetching %s", target), fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, apperror.Wrap(apperror.KindExtraction, "parsing "+target, err)
	}
	return doc, nil
}

// contentRoot prefers semantic containers and falls back to the element
// holding the most paragraph text.
func contentRoot(doc *goquery.Document) *goquery.Selection {
	for _, sel := range []string{"article", "main", "[role=main]"} {
		s := doc.Find(sel).First()
		if s.Length() > 0 && len(textOf(s)) >= minContentLength {
			return s
		}
	}

	var best *goquery.Selection
	bestScore := 0
	doc.Find("div, section").Each(func(_ int, s *goquery.Selection) {
		score := 0
		s.ChildrenFiltered("p").Each(func(_ int, p *goquery.Selection) {
			score += len(strings.TrimSpace(p.Text()))
		})
		if score > bestScore {
			best, bestScore = s, score
		}
	})
	if best != nil {
		return best
	}
	return doc.Find("body")
}

func textOf(s *goquery.Selection) string {
	parts := []string{}
	s.Find(contentSelectors).Each(func(_ int, el *goquery.Selection) {
		// nested blocks are picked up on their own
		if el.Is("li") && el.Find("p").Length() > 0 {
			return
		}
		if t := collapseSpace(el.Text()); t != "" {
			parts = append(parts, t)
		}
	})
	return strings.Join(parts, "\n\n")
}

func metaContent(doc *goquery.Document, selector string) string {
	v, _ := doc.Find(selector).First().Attr("content")
	return strings.TrimSpace(v)
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = collapseSpace(v); v != "" {
			return v
		}
	}
	return ""
}
