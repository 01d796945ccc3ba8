// Package api 对外暴露 HTTP 路由注册入口.
package api

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/patchvault/pkg/configs"
	"github.com/yeisme/patchvault/pkg/internal/router"
)

// RegisterGroup 将全部业务路由注册到传入的 gin 引擎.
func RegisterGroup(e *gin.Engine, cfg *configs.AppConfig) *gin.Engine {
	router.Register(e, cfg)

	return e
}
