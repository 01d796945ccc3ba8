package model

import (
	"time"
)

// LauncherBuild 启动器构建注册表，同一时刻至多一条 is_current.
type LauncherBuild struct {
	ID        uint   `gorm:"primaryKey"          json:"id"`
	Version   string `gorm:"size:20;index"       json:"version"`
	Filename  string `gorm:"size:255"            json:"filename"`
	IsCurrent bool   `gorm:"index;default:false" json:"is_current"`
	// 制品存储中的对象键
	BlobKey  string `gorm:"size:1024"               json:"blob_key"`
	FileSize int64  `json:"file_size"`
	MD5Hash  string `gorm:"size:32;column:md5_hash" json:"md5_hash"`

	ReleaseNotes string `gorm:"type:text" json:"release_notes"`
	CreatedBy    string `gorm:"size:255"  json:"created_by"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
