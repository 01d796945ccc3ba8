package handle

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/patchvault/pkg/internal/service"
	"github.com/yeisme/patchvault/pkg/internal/types"
	nlog "github.com/yeisme/patchvault/pkg/log"
	"github.com/yeisme/patchvault/pkg/rule"
)

// idParam 解析路径中的数字 ID.
func idParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})

		return 0, false
	}

	return uint(id), true
}

// ListVersions GET /api/admin/versions.
func ListVersions(c *gin.Context) {
	ctx := c.Request.Context()

	resp, err := service.NewVersionService(ctx).List(ctx)
	if err != nil {
		abortWithError(c, err)

		return
	}

	c.JSON(http.StatusOK, resp)
}

// CreateVersion POST /api/admin/versions.
func CreateVersion(c *gin.Context) {
	var req types.CreateVersionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		nlog.Logger().Warn().Err(err).Msg("invalid create version request")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	if err := rule.ValidateStruct(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	ctx := c.Request.Context()

	info, err := service.NewVersionService(ctx).Create(ctx, &req)
	if err != nil {
		abortWithError(c, err)

		return
	}

	c.JSON(http.StatusCreated, info)
}

// PromoteVersion POST /api/admin/versions/:id/promote.
func PromoteVersion(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if err := service.NewVersionService(ctx).Promote(ctx, id); err != nil {
		abortWithError(c, err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "version promoted"})
}

// DeleteVersion DELETE /api/admin/versions/:id.
func DeleteVersion(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if err := service.NewVersionService(ctx).Delete(ctx, id); err != nil {
		abortWithError(c, err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "version deleted"})
}
