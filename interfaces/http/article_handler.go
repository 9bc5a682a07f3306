package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"newsroom/domain/apperror"
	"newsroom/domain/dto"
	"newsroom/domain/model"
	"newsroom/usecase"
)

type IArticleHandler interface {
	Get(ctx *gin.Context)
	GetBySlug(ctx *gin.Context)
	List(ctx *gin.Context)
	Update(ctx *gin.Context)
	Delete(ctx *gin.Context)
	Publish(ctx *gin.Context)
}

type ArticleHandler struct {
	articleUsecase usecase.IArticleUsecase
	publishUsecase usecase.IPublishUsecase
}

func NewArticleHandler(articleUsecase usecase.IArticleUsecase, publishUsecase usecase.IPublishUsecase) IArticleHandler {
	return &ArticleHandler{articleUsecase: articleUsecase, publishUsecase: publishUsecase}
}

func (h *ArticleHandler) Get(ctx *gin.Context) {
	article, err := h.articleUsecase.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "OK", "article": article})
}

func (h *ArticleHandler) GetBySlug(ctx *gin.Context) {
	article, err := h.articleUsecase.GetBySlug(ctx.Request.Context(), ctx.Param("slug"))
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "OK", "article": article})
}

func (h *ArticleHandler) List(ctx *gin.Context) {
	var q dto.ArticleListQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		writeError(ctx, apperror.Validation("invalid query: "+err.Error()))
		return
	}
	if err := q.Validate(); err != nil {
		writeError(ctx, apperror.Validation(err.Error()))
		return
	}
	articles, err := h.articleUsecase.List(ctx.Request.Context(), q.ToFilter())
	if err != nil {
		writeError(ctx, err)
		return
	}
	if articles == nil {
		articles = []*model.Article{}
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "OK", "articles": articles})
}

func (h *ArticleHandler) Update(ctx *gin.Context) {
	var req dto.ArticlePatchRequest
	if !bindJSON(ctx, &req) {
		return
	}
	article, err := h.articleUsecase.Update(ctx.Request.Context(), ctx.Param("id"), req.ToPatch())
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Article updated", "article": article})
}

func (h *ArticleHandler) Delete(ctx *gin.Context) {
	if err := h.articleUsecase.Delete(ctx.Request.Context(), ctx.Param("id")); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Article deleted"})
}

func (h *ArticleHandler) Publish(ctx *gin.Context) {
	res, err := h.publishUsecase.FinalizeAndPublish(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     "Article published",
		"article":     res.Article,
		"sideEffects": res.SideEffects,
	})
}
