package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/patchvault/pkg/internal/service"
	"github.com/yeisme/patchvault/pkg/internal/types"
	nlog "github.com/yeisme/patchvault/pkg/log"
)

// DeviceCheck POST /api/device_check，准入检查（lookup-or-register）.
// 被封禁的设备返回 403，body 中携带原因.
func DeviceCheck(c *gin.Context) {
	var req types.DeviceCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		nlog.Logger().Warn().Err(err).Msg("invalid device check request")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	ctx := c.Request.Context()

	resp, err := service.NewDeviceService(ctx).Check(ctx, &req, c.ClientIP())
	if err != nil {
		abortWithError(c, err)

		return
	}

	if resp.IsBanned {
		c.JSON(http.StatusForbidden, resp)

		return
	}

	c.JSON(http.StatusOK, resp)
}
