package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"newsroom/domain/apperror"
	"newsroom/domain/model"
	"newsroom/infrastructure/llm"
	"newsroom/infrastructure/logger"
	"newsroom/infrastructure/metrics"
	"newsroom/infrastructure/utils"
)

const defaultCategory = "general"

// maxSourceRunes bounds the extracted text sent to the model.
const maxSourceRunes = 24000

type ArticleInput struct {
	SourceText string
	Topic      string
	SourceURL  string
	ImageURL   string
}

type GeneratedArticle struct {
	Title    string
	Excerpt  string
	Body     string
	Category string
	Slug     string
	ImageURL string
}

type SocialInput struct {
	Title    string
	Excerpt  string
	URL      string
	Platform model.Platform
}

// IGenerator produces article and social post text through an LLM.
type IGenerator interface {
	GenerateArticle(ctx context.Context, in ArticleInput) (*GeneratedArticle, error)
	GenerateSocialPost(ctx context.Context, in SocialInput) (string, error)
	Refine(ctx context.Context, article *model.Article) (*GeneratedArticle, error)
}

type Generator struct {
	llm llm.Client
}

var _ IGenerator = (*Generator)(nil)

func New(client llm.Client) *Generator {
	return &Generator{llm: client}
}

type articleJSON struct {
	Title    string `json:"title"`
	Excerpt  string `json:"excerpt"`
	Body     string `json:"body"`
	Category string `json:"category"`
}

func (g *Generator) GenerateArticle(ctx context.Context, in ArticleInput) (out *GeneratedArticle, err error) {
	defer observe("article", time.Now(), &err)

	var user string
	switch {
	case strings.TrimSpace(in.SourceText) != "":
		user = fmt.Sprintf("Source URL: %s\n\nSource text:\n%s", in.SourceURL, clip(in.SourceText, maxSourceRunes))
	case strings.TrimSpace(in.Topic) != "":
		user = "Write an article about the following topic:\n" + strings.TrimSpace(in.Topic)
	default:
		return nil, apperror.Validation("either source text or topic is required")
	}

	parsed, err := g.completeJSON(ctx, articleSystemPrompt, user)
	if err != nil {
		return nil, err
	}
	if parsed.Title == "" || parsed.Body == "" {
		return nil, apperror.Generation("model response is missing title or body", nil)
	}

	category := normalizeCategory(parsed.Category)
	return &GeneratedArticle{
		Title:    parsed.Title,
		Excerpt:  parsed.Excerpt,
		Body:     parsed.Body,
		Category: category,
		Slug:     slugFor(parsed.Title),
		ImageURL: in.ImageURL,
	}, nil
}

// Refine runs an editorial pass over an existing article. Slug and category
// are carried over unchanged.
func (g *Generator) Refine(ctx context.Context, article *model.Article) (out *GeneratedArticle, err error) {
	defer observe("refine", time.Now(), &err)

	user := fmt.Sprintf("Title: %s\n\nExcerpt: %s\n\nBody:\n%s", article.Title, article.Excerpt, article.Body)
	parsed, err := g.completeJSON(ctx, refineSystemPrompt, user)
	if err != nil {
		return nil, err
	}
	if parsed.Title == "" || parsed.Body == "" {
		return nil, apperror.Generation("refinement is missing title or body", nil)
	}
	excerpt := parsed.Excerpt
	if excerpt == "" {
		excerpt = article.Excerpt
	}

	out = &GeneratedArticle{
		Title:    parsed.Title,
		Excerpt:  excerpt,
		Body:     parsed.Body,
		Category: article.Category,
		Slug:     article.Slug,
	}
	if article.MainImage != nil {
		out.ImageURL = *article.MainImage
	}
	return out, nil
}

func (g *Generator) GenerateSocialPost(ctx context.Context, in SocialInput) (content string, err error) {
	defer observe("social_"+string(in.Platform), time.Now(), &err)

	instructions, ok := platformInstructions[string(in.Platform)]
	if !ok {
		return "", apperror.Validation(fmt.Sprintf("unsupported platform %q", in.Platform))
	}
	user := fmt.Sprintf("%s\n\nArticle title: %s\nArticle summary: %s", instructions, in.Title, in.Excerpt)

	raw, err := g.llm.Complete(ctx, socialSystemPrompt, user)
	if err != nil {
		return "", apperror.Generation("social post generation failed", err)
	}
	content, err = FormatSocialPost(in.Platform, raw, in.URL)
	if err != nil {
		return "", apperror.Generation(err.Error(), nil)
	}
	return content, nil
}

func (g *Generator) completeJSON(ctx context.Context, system, user string) (*articleJSON, error) {
	raw, err := g.llm.Complete(ctx, system, user)
	if err != nil {
		return nil, apperror.Generation("article generation failed", err)
	}
	var parsed articleJSON
	if err := json.Unmarshal([]byte(llm.CleanJSONResponse(raw)), &parsed); err != nil {
		logger.GetLogger().WithField("model", g.llm.Name()).WithField("error", err).Error("Error unmarshalling model response")
		return nil, apperror.Generation("model returned malformed JSON", err)
	}
	parsed.Title = strings.TrimSpace(parsed.Title)
	parsed.Excerpt = strings.TrimSpace(parsed.Excerpt)
	parsed.Body = strings.TrimSpace(parsed.Body)
	return &parsed, nil
}

func observe(mode string, start time.Time, err *error) {
	metrics.GenerationDuration.WithLabelValues(mode, metrics.Outcome(*err)).Observe(time.Since(start).Seconds())
}

func normalizeCategory(c string) string {
	c = utils.Slugify(c)
	if c == "" {
		return defaultCategory
	}
	return c
}

func slugFor(title string) string {
	if s := utils.Slugify(title); s != "" {
		return s
	}
	return "article"
}

func clip(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}
