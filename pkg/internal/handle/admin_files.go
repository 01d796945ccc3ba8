package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/patchvault/pkg/internal/service"
	"github.com/yeisme/patchvault/pkg/internal/types"
	nlog "github.com/yeisme/patchvault/pkg/log"
	"github.com/yeisme/patchvault/pkg/rule"
)

// versionOf 按路径 ID 解析版本号.
func versionOf(c *gin.Context) (string, bool) {
	id, ok := idParam(c)
	if !ok {
		return "", false
	}

	ctx := c.Request.Context()

	gv, err := service.NewVersionService(ctx).Get(ctx, id)
	if err != nil {
		abortWithError(c, err)

		return "", false
	}

	return gv.Version, true
}

// ListFiles GET /api/admin/versions/:id/files.
func ListFiles(c *gin.Context) {
	version, ok := versionOf(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()

	resp, err := service.NewFileService(ctx).List(ctx, version)
	if err != nil {
		abortWithError(c, err)

		return
	}

	c.JSON(http.StatusOK, resp)
}

// UploadFile POST /api/admin/versions/:id/files，multipart 表单上传.
// 摘要与大小由服务端在写入时计算，不信任表单携带的值.
func UploadFile(c *gin.Context) {
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

	relativePath := c.PostForm("relative_path")

	ctx := c.Request.Context()

	resp, err := service.NewFileService(ctx).Upload(ctx, version, fh.Filename, relativePath, f)
	if err != nil {
		nlog.Logger().Warn().Err(err).Str("file", fh.Filename).Msg("file upload failed")
		abortWithError(c, err)

		return
	}

	status := http.StatusCreated
	if resp.Replaced {
		status = http.StatusOK
	}

	c.JSON(status, resp)
}

// DeleteFile DELETE /api/admin/files/:id.
func DeleteFile(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if err := service.NewFileService(ctx).Delete(ctx, id); err != nil {
		abortWithError(c, err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "file deleted"})
}

// BatchDeleteFiles DELETE /api/admin/files，请求体携带 ID 列表.
func BatchDeleteFiles(c *gin.Context) {
	var req types.BatchDeleteFilesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	if err := rule.ValidateStruct(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	ctx := c.Request.Context()

	resp, err := service.NewFileService(ctx).BatchDelete(ctx, &req)
	if err != nil {
		abortWithError(c, err)

		return
	}

	// 部分失败时整体仍为 200，明细在响应里
	c.JSON(http.StatusOK, resp)
}
