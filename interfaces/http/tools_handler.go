package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"newsroom/domain/dto"
	"newsroom/infrastructure/cache"
	"newsroom/usecase"
)

type IToolsHandler interface {
	Scrape(ctx *gin.Context)
	Revalidate(ctx *gin.Context)
}

type ToolsHandler struct {
	articleUsecase usecase.IArticleUsecase
	invalidator    usecase.IInvalidator
}

func NewToolsHandler(articleUsecase usecase.IArticleUsecase, invalidator usecase.IInvalidator) IToolsHandler {
	return &ToolsHandler{articleUsecase: articleUsecase, invalidator: invalidator}
}

// Scrape runs extraction only and persists nothing.
func (h *ToolsHandler) Scrape(ctx *gin.Context) {
	var req dto.ScrapeRequest
	if !bindJSON(ctx, &req) {
		return
	}
	content, err := h.articleUsecase.Extract(ctx.Request.Context(), req.URL)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     "Content extracted",
		"title":       content.Title,
		"textContent": content.TextContent,
		"byline":      content.Byline,
		"siteName":    content.SiteName,
		"sourceUrl":   content.SourceURL,
		"leadImage":   content.LeadImage,
	})
}

// Revalidate purges one article's caches, or every cached page without a slug.
// It always reports success; purge failures are only logged.
func (h *ToolsHandler) Revalidate(ctx *gin.Context) {
	var req dto.RevalidateRequest
	if !bindOptionalJSON(ctx, &req) {
		return
	}
	scope := cache.GlobalScope()
	if req.Slug != "" {
		scope = cache.ArticleScope("", req.Slug)
	}
	res := h.invalidator.Invalidate(ctx.Request.Context(), scope)

	body := gin.H{"success": true, "message": "Revalidation triggered", "revalidated": res.Revalidated}
	if res.Slug != "" {
		body["slug"] = res.Slug
	}
	ctx.JSON(http.StatusOK, body)
}
