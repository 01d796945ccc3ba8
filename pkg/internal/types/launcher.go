package types

import "time"

// CreateLauncherRequest 登记启动器构建（随上传表单提交）.
type CreateLauncherRequest struct {
	Version      string `form:"version"       rule:"required,version4,max=20"`
	ReleaseNotes string `form:"release_notes" rule:"max=5000"`
	SetCurrent   bool   `form:"set_current"`
	CreatedBy    string `form:"created_by"    rule:"max=255"`
}

// LauncherInfo 启动器构建详情.
type LauncherInfo struct {
	ID           uint      `json:"id"`
	Version      string    `json:"version"`
	Filename     string    `json:"filename"`
	IsCurrent    bool      `json:"is_current"`
	MD5Hash      string    `json:"md5_hash"`
	FileSize     int64     `json:"file_size"`
	ReleaseNotes string    `json:"release_notes,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// ListLaunchersResponse 启动器构建列表.
type ListLaunchersResponse struct {
	Launchers []LauncherInfo `json:"launchers"`
	Total     int            `json:"total"`
}
