package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/patchvault/pkg/internal/service"
	nlog "github.com/yeisme/patchvault/pkg/log"
)

// ListPackages GET /api/admin/packages.
func ListPackages(c *gin.Context) {
	ctx := c.Request.Context()

	resp, err := service.NewPackageService(ctx).List(ctx)
	if err != nil {
		abortWithError(c, err)

		return
	}

	c.JSON(http.StatusOK, resp)
}

// UploadPackage POST /api/admin/versions/:id/package，
// 存储文件名固定为 update_<version>.zip，重复上传替换旧包.
func UploadPackage(c *gin.Context) {
	version, ok := versionOf(c)
	if !ok {
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file field is required"})

		return
	}

	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}
	defer f.Close()

	ctx := c.Request.Context()

	resp, err := service.NewPackageService(ctx).Upload(ctx, version, c.PostForm("uploaded_by"), f)
	if err != nil {
		nlog.Logger().Warn().Err(err).Str("version", version).Msg("package upload failed")
		abortWithError(c, err)

		return
	}

	status := http.StatusCreated
	if resp.Replaced {
		status = http.StatusOK
	}

	c.JSON(status, resp)
}

// DeletePackage DELETE /api/admin/packages/:id.
func DeletePackage(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if err := service.NewPackageService(ctx).Delete(ctx, id); err != nil {
		abortWithError(c, err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "package deleted"})
}
