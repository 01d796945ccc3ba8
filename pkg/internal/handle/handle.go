// Package handle 提供 HTTP 请求处理器.
package handle

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/patchvault/pkg/internal/service"
)

// statusOf 将业务哨兵错误映射到 HTTP 状态码.
func statusOf(err error) int {
	switch {
	case errors.Is(err, service.ErrVersionNotFound),
		errors.Is(err, service.ErrLauncherNotFound),
		errors.Is(err, service.ErrFileNotFound),
		errors.Is(err, service.ErrPackageNotFound),
		errors.Is(err, service.ErrMessageNotFound),
		errors.Is(err, service.ErrDeviceNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrDuplicateVersion):
		return http.StatusConflict
	case errors.Is(err, service.ErrCannotDeleteLatest),
		errors.Is(err, service.ErrCannotDeleteCurrent):
		return http.StatusConflict
	case errors.Is(err, service.ErrMissingIdentifier),
		errors.Is(err, service.ErrConfirmRequired):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// abortWithError 统一错误响应格式.
func abortWithError(c *gin.Context, err error) {
	c.JSON(statusOf(err), gin.H{"error": err.Error()})
}
