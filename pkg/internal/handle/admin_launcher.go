package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/patchvault/pkg/internal/service"
	"github.com/yeisme/patchvault/pkg/internal/types"
	nlog "github.com/yeisme/patchvault/pkg/log"
	"github.com/yeisme/patchvault/pkg/rule"
)

// ListLaunchers GET /api/admin/launchers.
func ListLaunchers(c *gin.Context) {
	ctx := c.Request.Context()

	resp, err := service.NewLauncherService(ctx).List(ctx)
	if err != nil {
		abortWithError(c, err)

		return
	}

	c.JSON(http.StatusOK, resp)
}

// UploadLauncher POST /api/admin/launchers，multipart 表单上传并登记.
func UploadLauncher(c *gin.Context) {
	var req types.CreateLauncherRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	if err := rule.ValidateStruct(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

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

	info, err := service.NewLauncherService(ctx).Upload(ctx, &req, fh.Filename, f)
	if err != nil {
		nlog.Logger().Warn().Err(err).Str("version", req.Version).Msg("launcher upload failed")
		abortWithError(c, err)

		return
	}

	c.JSON(http.StatusCreated, info)
}

// PromoteLauncher POST /api/admin/launchers/:id/promote.
func PromoteLauncher(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if err := service.NewLauncherService(ctx).Promote(ctx, id); err != nil {
		abortWithError(c, err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "launcher promoted"})
}

// DeleteLauncher DELETE /api/admin/launchers/:id.
func DeleteLauncher(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if err := service.NewLauncherService(ctx).Delete(ctx, id); err != nil {
		abortWithError(c, err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "launcher deleted"})
}
