package model

import (
	"time"
)

// NewsMessage 启动器公告消息，按 priority 降序、created_at 降序下发.
type NewsMessage struct {
	ID       uint   `gorm:"primaryKey"         json:"id"`
	Type     string `gorm:"size:50"            json:"type"`
	Message  string `gorm:"type:text"          json:"message"`
	IsActive bool   `gorm:"index;default:true" json:"is_active"`
	Priority int    `gorm:"index;default:0"    json:"priority"`

	CreatedBy string `gorm:"size:255" json:"created_by"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
