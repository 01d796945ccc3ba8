package model

import (
	"time"
)

// UpdatePackage 版本对应的更新包，每个版本至多一个.
type UpdatePackage struct {
	ID        uint   `gorm:"primaryKey"        json:"id"`
	Filename  string `gorm:"size:255"          json:"filename"`
	VersionID uint   `gorm:"uniqueIndex"       json:"version_id"`
	// 制品存储中的对象键
	BlobKey  string `gorm:"size:1024"               json:"blob_key"`
	FileSize int64  `json:"file_size"`
	MD5Hash  string `gorm:"size:32;column:md5_hash" json:"md5_hash"`

	UploadedBy string `gorm:"size:255" json:"uploaded_by"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PackageFilename 版本 v 对应更新包的规范文件名.
func PackageFilename(v string) string {
	return "update_" + v + ".zip"
}
