package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/patchvault/pkg/configs"
	"github.com/yeisme/patchvault/pkg/internal/handle"
	"github.com/yeisme/patchvault/pkg/middleware"
)

// RegisterPublicRoutes 注册客户端轮询与下载路由，公开访问但有限流.
func RegisterPublicRoutes(api *gin.RouterGroup, cfg *configs.AppConfig) {
	// 空前缀子组，限流只作用于公开路由，不波及健康检查与管理端
	g := api.Group("", middleware.RateLimitMiddleware(cfg.RateLimit))

	// 清单与公告
	g.GET("/update.json", handle.GameManifest)
	g.GET("/launcher_update.json", handle.LauncherManifest)
	g.GET("/message.json", handle.Messages)
	g.GET("/banner.html", handle.Banner)
	g.GET("/status", handle.Status)
	g.GET("/stats", handle.LogStats)

	// 设备准入
	g.POST("/device_check", handle.DeviceCheck)

	// 制品下载
	g.GET("/files/:filename", handle.DownloadGameFile)
	g.GET("/updates/:filename", handle.DownloadUpdatePackage)
	g.GET("/LauncherUpdater.exe", handle.DownloadLauncherUpdater)
}
