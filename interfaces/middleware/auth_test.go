package middleware_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"newsroom/infrastructure/configuration"
	"newsroom/interfaces/middleware"
)

func secretRouter(secrets configuration.Secrets) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/mutate", middleware.SharedSecret(secrets), func(c *gin.Context) {
		body, _ := io.ReadAll(c.Request.Body)
		c.String(http.StatusOK, string(body))
	})
	r.DELETE("/mutate", middleware.SharedSecret(secrets), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func TestSharedSecret(t *testing.T) {
	r := secretRouter(configuration.Secrets{Current: "s3cret", Legacy: "old-secret"})

	tests := []struct {
		name   string
		method string
		target string
		body   string
		want   int
	}{
		{"current in body", http.MethodPost, "/mutate", `{"secret":"s3cret","url":"https://example.com"}`, http.StatusOK},
		{"legacy in body", http.MethodPost, "/mutate", `{"secret":"old-secret"}`, http.StatusOK},
		{"current in query", http.MethodDelete, "/mutate?secret=s3cret", "", http.StatusNoContent},
		{"wrong secret", http.MethodPost, "/mutate", `{"secret":"guess"}`, http.StatusUnauthorized},
		{"prefix of secret", http.MethodPost, "/mutate", `{"secret":"s3cre"}`, http.StatusUnauthorized},
		{"missing secret", http.MethodPost, "/mutate", `{"url":"https://example.com"}`, http.StatusUnauthorized},
		{"no body", http.MethodDelete, "/mutate", "", http.StatusUnauthorized},
		{"malformed body", http.MethodPost, "/mutate", `{"secret":`, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body io.Reader
			if tt.body != "" {
				body = strings.NewReader(tt.body)
			}
			req := httptest.NewRequest(tt.method, tt.target, body)
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusUnauthorized {
				assert.JSONEq(t, `{"success":false,"message":"Unauthorized"}`, w.Body.String())
			}
		})
	}
}

func TestSharedSecret_RestoresBody(t *testing.T) {
	r := secretRouter(configuration.Secrets{Current: "s3cret"})
	payload := `{"secret":"s3cret","prompt":"AI"}`
	req := httptest.NewRequest(http.MethodPost, "/mutate", strings.NewReader(payload))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, payload, w.Body.String())
}

func TestSharedSecret_NothingConfiguredRejects(t *testing.T) {
	r := secretRouter(configuration.Secrets{})
	req := httptest.NewRequest(http.MethodPost, "/mutate", strings.NewReader(`{"secret":""}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
