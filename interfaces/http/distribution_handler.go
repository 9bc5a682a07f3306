package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"newsroom/domain/dto"
	"newsroom/domain/model"
	"newsroom/usecase"
)

type IDistributionHandler interface {
	Distribute(ctx *gin.Context)
	ListPosts(ctx *gin.Context)
	PublishPost(ctx *gin.Context)
}

type DistributionHandler struct {
	distributionUsecase usecase.IDistributionUsecase
}

func NewDistributionHandler(distributionUsecase usecase.IDistributionUsecase) IDistributionHandler {
	return &DistributionHandler{distributionUsecase: distributionUsecase}
}

func (h *DistributionHandler) Distribute(ctx *gin.Context) {
	var req dto.DistributeRequest
	if !bindJSON(ctx, &req) {
		return
	}
	results, err := h.distributionUsecase.Distribute(ctx.Request.Context(), ctx.Param("id"), req.Platforms, req.AutoPublish)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Distribution finished", "results": results})
}

func (h *DistributionHandler) ListPosts(ctx *gin.Context) {
	posts, err := h.distributionUsecase.ListPosts(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		writeError(ctx, err)
		return
	}
	if posts == nil {
		posts = []*model.SocialPost{}
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "OK", "posts": posts})
}

func (h *DistributionHandler) PublishPost(ctx *gin.Context) {
	post, err := h.distributionUsecase.PublishPost(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Post published", "post": post})
}
