package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/patchvault/pkg/internal/handle"
)

// RegisterAdminRoutes 注册管理路由，外层已挂令牌认证.
func RegisterAdminRoutes(g *gin.RouterGroup) {
	// 版本
	versions := g.Group("/versions")
	{
		versions.GET("", handle.ListVersions)
		versions.POST("", handle.CreateVersion)
		versions.POST("/:id/promote", handle.PromoteVersion)
		versions.DELETE("/:id", handle.DeleteVersion)

		// 版本下的文件与更新包
		versions.GET("/:id/files", handle.ListFiles)
		versions.POST("/:id/files", handle.UploadFile)
		versions.POST("/:id/package", handle.UploadPackage)
	}

	// 文件
	files := g.Group("/files")
	{
		files.DELETE("", handle.BatchDeleteFiles)
		files.DELETE("/:id", handle.DeleteFile)
	}

	// 更新包
	packages := g.Group("/packages")
	{
		packages.GET("", handle.ListPackages)
		packages.DELETE("/:id", handle.DeletePackage)
	}

	// 启动器构建
	launchers := g.Group("/launchers")
	{
		launchers.GET("", handle.ListLaunchers)
		launchers.POST("", handle.UploadLauncher)
		launchers.POST("/:id/promote", handle.PromoteLauncher)
		launchers.DELETE("/:id", handle.DeleteLauncher)
	}

	// 公告消息
	messages := g.Group("/messages")
	{
		messages.GET("", handle.ListMessages)
		messages.POST("", handle.CreateMessage)
		messages.PUT("/:id", handle.UpdateMessage)
		messages.POST("/:id/toggle", handle.ToggleMessage)
		messages.DELETE("/:id", handle.DeleteMessage)
	}

	// 设备
	devices := g.Group("/devices")
	{
		devices.GET("", handle.ListDevices)
		devices.POST("/:id/ban", handle.BanDevice)
		devices.POST("/:id/unban", handle.UnbanDevice)
	}

	// 下载台账
	logs := g.Group("/logs")
	{
		logs.GET("", handle.ListLogs)
		logs.GET("/stats", handle.LogStats)
		logs.POST("/cleanup", handle.CleanupLogs)
		logs.GET("/export", handle.ExportLogs)
	}
}
