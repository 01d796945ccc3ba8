package model

import (
	"time"
)

// 下载台账的 file_type 取值.
const (
	FileTypeUpdateCheck     = "update_check"
	FileTypeLauncherCheck   = "launcher_check"
	FileTypeMessages        = "messages"
	FileTypeBanner          = "banner"
	FileTypeGameFile        = "game_file"
	FileTypeUpdate          = "update"
	FileTypeLauncherUpdater = "launcher_updater"
)

// DownloadLog 下载台账，记录写入失败绝不影响主流程.
type DownloadLog struct {
	ID            uint   `gorm:"primaryKey"     json:"id"`
	IPAddress     string `gorm:"size:45;index"  json:"ip_address"`
	UserAgent     string `gorm:"size:500"       json:"user_agent"`
	FileRequested string `gorm:"size:255;index" json:"file_requested"`
	FileType      string `gorm:"size:50;index"  json:"file_type"`
	Success       bool   `gorm:"default:true"   json:"success"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
