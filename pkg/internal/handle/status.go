package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/patchvault/pkg/internal/service"
)

// Status GET /api/status，服务状态概览.
func Status(c *gin.Context) {
	ctx := c.Request.Context()

	resp, err := service.NewStatusService(ctx).Overview(ctx)
	if err != nil {
		abortWithError(c, err)

		return
	}

	c.JSON(http.StatusOK, resp)
}
