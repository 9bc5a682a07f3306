package middleware

import (
	"bytes"
	"crypto/subtle"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"newsroom/infrastructure/configuration"
	"newsroom/infrastructure/logger"
)

const maxSecretBodyBytes = 1 << 20

// SharedSecret guards mutating routes. The secret is read from the "secret"
// query parameter or from the "secret" field of a JSON body; the body is
// restored for the handler. Both the current and the legacy value are accepted.
func SharedSecret(secrets configuration.Secrets) gin.HandlerFunc {
	accepted := secrets.Values()
	if len(accepted) == 0 {
		logger.GetLogger().Warn("No shared secret configured, every mutating request will be rejected")
	}

	return func(ctx *gin.Context) {
		secret := ctx.Query("secret")
		if secret == "" {
			secret = secretFromBody(ctx.Request)
		}
		if secret == "" || !matches(secret, accepted) {
			logger.GetLogger().
				WithField("path", ctx.FullPath()).
				WithField("request_id", GetRequestID(ctx)).
				Warn("Rejected request with missing or invalid secret")
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Unauthorized",
			})
			return
		}
		ctx.Next()
	}
}

func secretFromBody(req *http.Request) string {
	if req.Body == nil || req.Body == http.NoBody {
		return ""
	}
	body, err := io.ReadAll(io.LimitReader(req.Body, maxSecretBodyBytes))
	_ = req.Body.Close()
	req.Body = io.NopCloser(bytes.NewReader(body))
	if err != nil || len(body) == 0 {
		return ""
	}
	var payload struct {
		Secret string `json:"secret"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return payload.Secret
}

func matches(secret string, accepted []string) bool {
	ok := 0
	for _, a := range accepted {
		ok |= subtle.ConstantTimeCompare([]byte(secret), []byte(a))
	}
	return ok == 1
}
