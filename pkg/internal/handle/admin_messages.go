package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/patchvault/pkg/internal/service"
	"github.com/yeisme/patchvault/pkg/internal/types"
	"github.com/yeisme/patchvault/pkg/rule"
)

// ListMessages GET /api/admin/messages.
func ListMessages(c *gin.Context) {
	ctx := c.Request.Context()

	resp, err := service.NewMessageService(ctx).List(ctx)
	if err != nil {
		abortWithError(c, err)

		return
	}

	c.JSON(http.StatusOK, resp)
}

// CreateMessage POST /api/admin/messages.
func CreateMessage(c *gin.Context) {
	var req types.CreateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	if err := rule.ValidateStruct(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	ctx := c.Request.Context()

	info, err := service.NewMessageService(ctx).Create(ctx, &req, req.CreatedBy)
	if err != nil {
		abortWithError(c, err)

		return
	}

	c.JSON(http.StatusCreated, info)
}

// UpdateMessage PUT /api/admin/messages/:id.
func UpdateMessage(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req types.UpdateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	ctx := c.Request.Context()

	info, err := service.NewMessageService(ctx).Update(ctx, id, &req)
	if err != nil {
		abortWithError(c, err)

		return
	}

	c.JSON(http.StatusOK, info)
}

// ToggleMessage POST /api/admin/messages/:id/toggle.
func ToggleMessage(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()

	info, err := service.NewMessageService(ctx).Toggle(ctx, id)
	if err != nil {
		abortWithError(c, err)

		return
	}

	c.JSON(http.StatusOK, info)
}

// DeleteMessage DELETE /api/admin/messages/:id.
func DeleteMessage(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if err := service.NewMessageService(ctx).Delete(ctx, id); err != nil {
		abortWithError(c, err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "message deleted"})
}
