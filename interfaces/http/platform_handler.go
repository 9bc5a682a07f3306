package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"newsroom/domain/dto"
	"newsroom/usecase"
)

type IPlatformHandler interface {
	SetToken(ctx *gin.Context)
}

type PlatformHandler struct {
	platformUsecase usecase.IPlatformUsecase
}

func NewPlatformHandler(platformUsecase usecase.IPlatformUsecase) IPlatformHandler {
	return &PlatformHandler{platformUsecase: platformUsecase}
}

func (h *PlatformHandler) SetToken(ctx *gin.Context) {
	var req dto.PlatformTokenRequest
	if !bindJSON(ctx, &req) {
		return
	}
	tok, err := h.platformUsecase.SetToken(ctx.Request.Context(), usecase.PlatformTokenInput{
		Platform:    ctx.Param("platform"),
		AccessToken: req.AccessToken,
		AccountID:   req.AccountID,
		AccountName: req.AccountName,
		ExpiresAt:   req.ExpiresAt,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Token stored", "platform": tok.Platform})
}
