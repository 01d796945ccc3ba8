package handle

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/patchvault/pkg/internal/service"
	"github.com/yeisme/patchvault/pkg/internal/types"
	"github.com/yeisme/patchvault/pkg/rule"
)

// ListLogs GET /api/admin/logs.
func ListLogs(c *gin.Context) {
	var req types.ListLogsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	ctx := c.Request.Context()

	resp, err := service.NewLedgerService(ctx).List(ctx, &req)
	if err != nil {
		abortWithError(c, err)

		return
	}

	c.JSON(http.StatusOK, resp)
}

// LogStats 下载统计，公开只读挂在 GET /api/stats，管理端挂在 GET /api/admin/logs/stats.
func LogStats(c *gin.Context) {
	ctx := c.Request.Context()

	stats, err := service.NewLedgerService(ctx).Stats(ctx)
	if err != nil {
		abortWithError(c, err)

		return
	}

	c.JSON(http.StatusOK, stats)
}

// CleanupLogs POST /api/admin/logs/cleanup，必须显式 confirm.
func CleanupLogs(c *gin.Context) {
	var req types.CleanupLogsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	if err := rule.ValidateStruct(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	ctx := c.Request.Context()

	resp, err := service.NewLedgerService(ctx).Cleanup(ctx, &req)
	if err != nil {
		abortWithError(c, err)

		return
	}

	c.JSON(http.StatusOK, resp)
}

// ExportLogs GET /api/admin/logs/export，CSV 附件.
func ExportLogs(c *gin.Context) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition",
		`attachment; filename="download_logs_`+time.Now().UTC().Format("20060102")+`.csv"`)
	c.Status(http.StatusOK)

	ctx := c.Request.Context()
	if err := service.NewLedgerService(ctx).ExportCSV(ctx, c.Writer); err != nil {
		// 头已发出，只能中断
		_ = c.Error(err)
	}
}
