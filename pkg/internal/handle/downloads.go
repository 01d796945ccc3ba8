package handle

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/patchvault/pkg/configs"
	ctxPkg "github.com/yeisme/patchvault/pkg/context"
	"github.com/yeisme/patchvault/pkg/internal/model"
	"github.com/yeisme/patchvault/pkg/internal/service"
	"github.com/yeisme/patchvault/pkg/internal/storage/blob"
	nlog "github.com/yeisme/patchvault/pkg/log"
)

// DownloadGameFile GET /api/files/:filename，下发最新版本清单中的文件.
func DownloadGameFile(c *gin.Context) {
	ctx := c.Request.Context()
	filename := c.Param("filename")

	rc, f, err := service.NewFileService(ctx).Open(ctx, filename)
	if err != nil {
		recordDownload(c, filename, model.FileTypeGameFile, false)
		abortWithError(c, err)

		return
	}
	defer rc.Close()

	recordDownload(c, filename, model.FileTypeGameFile, true)
	streamBlob(c, rc, filename, f.FileSize)
}

// DownloadUpdatePackage GET /api/updates/:filename，按规范文件名下发更新包.
func DownloadUpdatePackage(c *gin.Context) {
	ctx := c.Request.Context()
	filename := c.Param("filename")

	rc, p, err := service.NewPackageService(ctx).Open(ctx, filename)
	if err != nil {
		recordDownload(c, filename, model.FileTypeUpdate, false)
		abortWithError(c, err)

		return
	}
	defer rc.Close()

	recordDownload(c, filename, model.FileTypeUpdate, true)
	streamBlob(c, rc, filename, p.FileSize)
}

// DownloadLauncherUpdater GET /api/LauncherUpdater.exe，当前启动器构建.
func DownloadLauncherUpdater(c *gin.Context) {
	ctx := c.Request.Context()

	rc, b, err := service.NewLauncherService(ctx).Open(ctx)
	if err != nil {
		recordDownload(c, configs.DefaultUpdaterObject, model.FileTypeLauncherUpdater, false)
		abortWithError(c, err)

		return
	}
	defer rc.Close()

	recordDownload(c, b.Filename, model.FileTypeLauncherUpdater, true)
	streamBlob(c, rc, b.Filename, b.FileSize)
}

// Banner GET /api/banner.html，静态横幅.
func Banner(c *gin.Context) {
	ctx := c.Request.Context()

	store := ctxPkg.GetBlobStore(ctx)

	key, err := blob.Key(blob.AreaStatic, configs.DefaultBannerObject)
	if err != nil {
		abortWithError(c, err)

		return
	}

	rc, err := store.Get(ctx, key)
	if err != nil {
		recordDownload(c, configs.DefaultBannerObject, model.FileTypeBanner, false)
		c.JSON(http.StatusNotFound, gin.H{"error": "banner not found"})

		return
	}
	defer rc.Close()

	recordDownload(c, configs.DefaultBannerObject, model.FileTypeBanner, true)
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)

	if _, err := io.Copy(c.Writer, rc); err != nil {
		nlog.Logger().Warn().Err(err).Msg("stream banner interrupted")
	}
}

// streamBlob 以附件形式流式输出制品字节.
func streamBlob(c *gin.Context, r io.Reader, filename string, size int64) {
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, filename))
	c.Header("Content-Type", "application/octet-stream")

	if size > 0 {
		c.Header("Content-Length", fmt.Sprintf("%d", size))
	}

	c.Status(http.StatusOK)

	if _, err := io.Copy(c.Writer, r); err != nil {
		nlog.Logger().Warn().Err(err).Str("file", filename).Msg("stream blob interrupted")
	}
}
