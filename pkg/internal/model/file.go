package model

import (
	"time"
)

// GameFile 某一版本文件清单中的单个文件，(filename, version_id) 唯一.
type GameFile struct {
	ID uint `gorm:"primaryKey" json:"id"`
	// 文件名与版本共同唯一，重复上传走替换语义
	Filename     string `gorm:"size:255;index:idx_file_version,unique" json:"filename"`
	VersionID    uint   `gorm:"index:idx_file_version,unique;index"    json:"version_id"`
	RelativePath string `gorm:"size:500"                               json:"relative_path"`
	// 服务端计算的 32 位十六进制摘要
	MD5Hash  string `gorm:"size:32;column:md5_hash" json:"md5_hash"`
	FileSize int64  `gorm:"index"                   json:"file_size"`
	// 制品存储中的对象键
	BlobKey string `gorm:"size:1024" json:"blob_key"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ManifestEntry 清单下发时的单文件条目，键名与客户端协议保持一致.
type ManifestEntry struct {
	FileName     string `json:"FileName"`
	RelativePath string `json:"RelativePath"`
	MD5Hash      string `json:"MD5Hash"`
}

// ToManifestEntry 转换为清单条目.
func (f *GameFile) ToManifestEntry() ManifestEntry {
	return ManifestEntry{
		FileName:     f.Filename,
		RelativePath: f.RelativePath,
		MD5Hash:      f.MD5Hash,
	}
}
