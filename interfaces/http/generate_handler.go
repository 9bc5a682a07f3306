package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"newsroom/domain/dto"
	"newsroom/domain/model"
	"newsroom/usecase"
)

type IGenerateHandler interface {
	FromURL(ctx *gin.Context)
	FromTopic(ctx *gin.Context)
}

type GenerateHandler struct {
	articleUsecase usecase.IArticleUsecase
}

func NewGenerateHandler(articleUsecase usecase.IArticleUsecase) IGenerateHandler {
	return &GenerateHandler{articleUsecase: articleUsecase}
}

func (h *GenerateHandler) FromURL(ctx *gin.Context) {
	var req dto.GenerateURLRequest
	if !bindJSON(ctx, &req) {
		return
	}
	article, err := h.articleUsecase.GenerateFromURL(ctx.Request.Context(), req.URL)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Draft generated",
		"article": article,
	})
}

func (h *GenerateHandler) FromTopic(ctx *gin.Context) {
	var req dto.GenerateTopicRequest
	if !bindJSON(ctx, &req) {
		return
	}
	res, err := h.articleUsecase.GenerateFromTopic(ctx.Request.Context(), usecase.TopicRequest{
		Prompt:        req.Prompt,
		PublishStatus: model.ArticleStatus(req.PublishStatus),
		PostSocial:    req.PostSocial,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}

	body := gin.H{
		"success":     true,
		"message":     "Article generated",
		"article":     res.Article,
		"sideEffects": res.SideEffects,
	}
	if res.Distribution != nil {
		body["distribution"] = res.Distribution
	}
	if res.DistributionError != "" {
		body["distributionError"] = res.DistributionError
	}
	ctx.JSON(http.StatusCreated, body)
}
