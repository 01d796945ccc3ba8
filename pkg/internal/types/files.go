package types

import "time"

// FileUploadResponse 单文件上传结果，摘要由服务端在写入时计算.
type FileUploadResponse struct {
	ID           uint   `json:"id"`
	Filename     string `json:"filename"`
	RelativePath string `json:"relative_path"`
	MD5Hash      string `json:"md5_hash"`
	FileSize     int64  `json:"file_size"`
	Version      string `json:"version"`
	// Replaced 为 true 表示覆盖了同名同版本的旧记录
	Replaced bool `json:"replaced"`
}

// FileInfo 文件清单中的单条记录.
type FileInfo struct {
	ID           uint      `json:"id"`
	Filename     string    `json:"filename"`
	RelativePath string    `json:"relative_path"`
	MD5Hash      string    `json:"md5_hash"`
	FileSize     int64     `json:"file_size"`
	VersionID    uint      `json:"version_id"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ListFilesResponse 某版本的文件清单.
type ListFilesResponse struct {
	Files []FileInfo `json:"files"`
	Total int        `json:"total"`
}

// BatchDeleteFilesRequest 批量删除文件.
type BatchDeleteFilesRequest struct {
	IDs []uint `json:"ids" rule:"required,min=1"`
}

// BatchDeleteFailure 批量删除中单项失败详情.
type BatchDeleteFailure struct {
	ID    uint   `json:"id"`
	Error string `json:"error"`
}

// BatchDeleteFilesResponse 批量删除结果，部分失败不影响其余项.
type BatchDeleteFilesResponse struct {
	Deleted []uint               `json:"deleted"`
	Failed  []BatchDeleteFailure `json:"failed"`
}
