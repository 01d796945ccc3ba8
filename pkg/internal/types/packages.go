package types

import "time"

// PackageInfo 版本更新包详情.
type PackageInfo struct {
	ID         uint      `json:"id"`
	Filename   string    `json:"filename"`
	Version    string    `json:"version"`
	VersionID  uint      `json:"version_id"`
	MD5Hash    string    `json:"md5_hash"`
	FileSize   int64     `json:"file_size"`
	UploadedBy string    `json:"uploaded_by,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// PackageUploadResponse 更新包上传结果.
type PackageUploadResponse struct {
	PackageInfo
	// Replaced 为 true 表示覆盖了该版本之前的更新包
	Replaced bool `json:"replaced"`
}

// ListPackagesResponse 更新包列表，按版本号升序.
type ListPackagesResponse struct {
	Packages []PackageInfo `json:"packages"`
	Total    int           `json:"total"`
}
