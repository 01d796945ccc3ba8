// Package types 定义请求与响应结构体.
package types

import "time"

// CreateVersionRequest 创建游戏版本.
type CreateVersionRequest struct {
	Version      string `json:"version"       rule:"required,version4,max=20"`
	ReleaseNotes string `json:"release_notes" rule:"max=5000"`
	// SetLatest 创建后立刻提升为最新
	SetLatest bool   `json:"set_latest"`
	CreatedBy string `json:"created_by" rule:"max=255"`
}

// VersionInfo 版本详情.
type VersionInfo struct {
	ID           uint      `json:"id"`
	Version      string    `json:"version"`
	IsLatest     bool      `json:"is_latest"`
	ReleaseNotes string    `json:"release_notes,omitempty"`
	CreatedBy    string    `json:"created_by,omitempty"`
	FileCount    int64     `json:"file_count"`
	HasPackage   bool      `json:"has_package"`
	CreatedAt    time.Time `json:"created_at"`
}

// ListVersionsResponse 版本列表，按版本号降序.
type ListVersionsResponse struct {
	Versions []VersionInfo `json:"versions"`
	Total    int           `json:"total"`
}
