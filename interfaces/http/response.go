package http

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"newsroom/domain/apperror"
	"newsroom/infrastructure/logger"
	"newsroom/interfaces/middleware"
)

const (
	ErrorUnmarshal = "Error while unmarshal"
	internalError  = "Internal server error"
)

// writeError maps err to its HTTP status and writes the standard failure body.
func writeError(ctx *gin.Context, err error) {
	if errors.Is(ctx.Request.Context().Err(), context.DeadlineExceeded) && !apperror.Is(err, apperror.KindTimeout) {
		err = apperror.Wrap(apperror.KindTimeout, "pipeline deadline exceeded", err)
	}
	kind := apperror.KindOf(err)
	status := apperror.StatusCode(err)

	entry := logger.GetLogger().
		WithField("path", ctx.FullPath()).
		WithField("request_id", middleware.GetRequestID(ctx)).
		WithField("kind", kind).
		WithField("error", err)
	message := err.Error()
	if kind == apperror.KindInternal {
		entry.Error("Request failed")
		message = internalError
	} else {
		entry.Warn("Request failed")
	}

	ctx.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"message": message,
		"error":   kind,
	})
}

// bindJSON decodes the body into req and runs its validation rules.
func bindJSON(ctx *gin.Context, req interface{ Validate() error }) bool {
	return bind(ctx, req, false)
}

// bindOptionalJSON is bindJSON for routes where an absent body means an
// empty request.
func bindOptionalJSON(ctx *gin.Context, req interface{ Validate() error }) bool {
	return bind(ctx, req, true)
}

func bind(ctx *gin.Context, req interface{ Validate() error }, optional bool) bool {
	if optional && (ctx.Request.Body == nil || ctx.Request.Body == http.NoBody) {
		return validate(ctx, req)
	}
	if err := ctx.ShouldBindJSON(req); err != nil && !(optional && errors.Is(err, io.EOF)) {
		logger.GetLogger().WithField("error", err).Error(ErrorUnmarshal)
		writeError(ctx, apperror.Validation("invalid request body: "+err.Error()))
		return false
	}
	return validate(ctx, req)
}

func validate(ctx *gin.Context, req interface{ Validate() error }) bool {
	if err := req.Validate(); err != nil {
		writeError(ctx, apperror.Validation(err.Error()))
		return false
	}
	return true
}
