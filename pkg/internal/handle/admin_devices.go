package handle

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/patchvault/pkg/internal/service"
	"github.com/yeisme/patchvault/pkg/internal/types"
)

// ListDevices GET /api/admin/devices?page=&size=.
func ListDevices(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "50"))

	ctx := c.Request.Context()

	resp, err := service.NewDeviceService(ctx).List(ctx, page, size)
	if err != nil {
		abortWithError(c, err)

		return
	}

	c.JSON(http.StatusOK, resp)
}

// BanDevice POST /api/admin/devices/:id/ban.
func BanDevice(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req types.BanDeviceRequest
	// 原因可省略
	_ = c.ShouldBindJSON(&req)

	ctx := c.Request.Context()
	if err := service.NewDeviceService(ctx).Ban(ctx, id, req.Reason); err != nil {
		abortWithError(c, err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "device banned"})
}

// UnbanDevice POST /api/admin/devices/:id/unban.
func UnbanDevice(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if err := service.NewDeviceService(ctx).Unban(ctx, id); err != nil {
		abortWithError(c, err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "device unbanned"})
}
