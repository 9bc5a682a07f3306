package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsroom/interfaces/middleware"
)

func TestDeadline_BoundsButDetachesFromClient(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.Deadline(50 * time.Millisecond))

	var (
		deadline    time.Time
		hasDeadline bool
		errAfter    error
	)
	router.GET("/work", func(c *gin.Context) {
		deadline, hasDeadline = c.Request.Context().Deadline()
		<-c.Request.Context().Done()
		errAfter = c.Request.Context().Err()
		c.Status(http.StatusGatewayTimeout)
	})

	clientCtx, cancelClient := context.WithCancel(context.Background())
	cancelClient()
	req := httptest.NewRequest(http.MethodGet, "/work", nil).WithContext(clientCtx)
	w := httptest.NewRecorder()

	start := time.Now()
	router.ServeHTTP(w, req)

	require.True(t, hasDeadline)
	assert.WithinDuration(t, start.Add(50*time.Millisecond), deadline, 40*time.Millisecond)
	assert.ErrorIs(t, errAfter, context.DeadlineExceeded)
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}
