package types

import "time"

// ClientMessage 公告消息的客户端下发格式.
type ClientMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// CreateMessageRequest 创建公告消息.
type CreateMessageRequest struct {
	Type      string `json:"type"       rule:"required,max=50"`
	Message   string `json:"message"    rule:"required"`
	IsActive  *bool  `json:"is_active"`
	Priority  int    `json:"priority"`
	CreatedBy string `json:"created_by" rule:"omitempty,max=100"`
}

// UpdateMessageRequest 更新公告消息，nil 字段不变.
type UpdateMessageRequest struct {
	Type     *string `json:"type"     rule:"omitempty,max=50"`
	Message  *string `json:"message"`
	IsActive *bool   `json:"is_active"`
	Priority *int    `json:"priority"`
}

// MessageInfo 公告消息详情（管理端）.
type MessageInfo struct {
	ID        uint      `json:"id"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	IsActive  bool      `json:"is_active"`
	Priority  int       `json:"priority"`
	CreatedBy string    `json:"created_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListMessagesResponse 公告消息列表.
type ListMessagesResponse struct {
	Messages []MessageInfo `json:"messages"`
	Total    int           `json:"total"`
}
