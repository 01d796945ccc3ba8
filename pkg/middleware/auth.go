package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/patchvault/pkg/configs"
)

// AuthMiddleware 管理端令牌校验。
//   - 令牌取自配置头（默认 X-Admin-Token），也接受 Authorization: Bearer <token>
//   - 支持通过配置跳过某些路径（如 /metrics, /api/health）
//   - 认证启用但未配置令牌时拒绝所有请求，避免误开裸奔的管理面.
func AuthMiddleware(conf configs.AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !conf.Enabled || isSkippedPath(c.Request.URL.Path, conf.SkipPaths) {
			c.Next()
			return
		}

		if conf.Token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "admin token not configured"})

			return
		}

		token := strings.TrimSpace(c.GetHeader(conf.Header))
		if token == "" {
			auth := strings.TrimSpace(c.GetHeader("Authorization"))
			if after, ok := strings.CutPrefix(auth, "Bearer "); ok {
				token = strings.TrimSpace(after)
			}
		}

		if subtle.ConstantTimeCompare([]byte(token), []byte(conf.Token)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})

			return
		}

		c.Next()
	}
}

func isSkippedPath(path string, skips []string) bool {
	if path == "" || len(skips) == 0 {
		return false
	}

	for _, p := range skips {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}

		if strings.HasPrefix(path, p) {
			return true
		}
	}

	return false
}
