// Package router 管理路由配置，用于设置HTTP服务的路由.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/patchvault/pkg/configs"
	"github.com/yeisme/patchvault/pkg/middleware"
)

// Register 注册全部路由：公开的客户端 API 与受令牌保护的管理 API.
func Register(e *gin.Engine, cfg *configs.AppConfig) {
	api := e.Group("/api")
	{
		RegisterPublicRoutes(api, cfg)
		RegisterHealthCheckRoute(api)
	}

	admin := api.Group("/admin", middleware.AuthMiddleware(cfg.Auth))
	{
		RegisterAdminRoutes(admin)
		RegisterSchedulerRoutes(admin)
	}
}
