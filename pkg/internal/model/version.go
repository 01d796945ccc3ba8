// Package model 定义数据库实体.
package model

import (
	"time"
)

// GameVersion 游戏版本注册表，同一时刻至多一条 is_latest.
type GameVersion struct {
	ID           uint   `gorm:"primaryKey"              json:"id"`
	Version      string `gorm:"size:20;uniqueIndex"     json:"version"`
	IsLatest     bool   `gorm:"index;default:false"     json:"is_latest"`
	ReleaseNotes string `gorm:"type:text"               json:"release_notes"`
	CreatedBy    string `gorm:"size:255"                json:"created_by"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 关联：该版本的文件清单与更新包
	Files    []GameFile     `gorm:"foreignKey:VersionID" json:"files,omitempty"`
	Packages []UpdatePackage `gorm:"foreignKey:VersionID" json:"packages,omitempty"`
}
