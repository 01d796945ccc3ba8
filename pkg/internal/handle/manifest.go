package handle

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/patchvault/pkg/internal/model"
	"github.com/yeisme/patchvault/pkg/internal/service"
)

// GameManifest GET /api/update.json，客户端轮询的更新清单.
// 没有已发布版本时仍返回可解析的占位清单，状态码 404.
func GameManifest(c *gin.Context) {
	ctx := c.Request.Context()

	svc := service.NewManifestService(ctx)

	m, err := svc.GameManifest(ctx)
	if err != nil {
		if errors.Is(err, service.ErrVersionNotFound) {
			recordDownload(c, "update.json", model.FileTypeUpdateCheck, false)
			c.JSON(http.StatusNotFound, m)

			return
		}

		recordDownload(c, "update.json", model.FileTypeUpdateCheck, false)
		abortWithError(c, err)

		return
	}

	recordDownload(c, "update.json", model.FileTypeUpdateCheck, true)
	c.JSON(http.StatusOK, m)
}

// LauncherManifest GET /api/launcher_update.json.
func LauncherManifest(c *gin.Context) {
	ctx := c.Request.Context()

	svc := service.NewManifestService(ctx)

	m, err := svc.LauncherManifest(ctx)
	if err != nil {
		if errors.Is(err, service.ErrLauncherNotFound) {
			recordDownload(c, "launcher_update.json", model.FileTypeLauncherCheck, false)
			c.JSON(http.StatusNotFound, m)

			return
		}

		recordDownload(c, "launcher_update.json", model.FileTypeLauncherCheck, false)
		abortWithError(c, err)

		return
	}

	recordDownload(c, "launcher_update.json", model.FileTypeLauncherCheck, true)
	c.JSON(http.StatusOK, m)
}

// Messages GET /api/message.json，启用中的公告.
func Messages(c *gin.Context) {
	ctx := c.Request.Context()

	msgs, err := service.NewMessageService(ctx).Active(ctx)
	if err != nil {
		recordDownload(c, "message.json", model.FileTypeMessages, false)
		abortWithError(c, err)

		return
	}

	recordDownload(c, "message.json", model.FileTypeMessages, true)
	c.JSON(http.StatusOK, msgs)
}

// recordDownload 旁路记账，永不影响响应.
func recordDownload(c *gin.Context, file, fileType string, success bool) {
	ctx := c.Request.Context()
	service.NewLedgerService(ctx).Record(ctx, c.ClientIP(), c.Request.UserAgent(), file, fileType, success)
}
