package model

import (
	"time"
)

// Device 设备准入记录，硬件三元组 (hwid, serial, mac) 组合唯一.
// DeviceID 为对外暴露的 ULID，数据库主键不外泄.
type Device struct {
	ID       uint   `gorm:"primaryKey"          json:"id"`
	DeviceID string `gorm:"size:26;uniqueIndex" json:"device_id"`

	// 三个硬件标识允许部分为空，组合唯一约束保证并发注册只落一行
	HWID   string `gorm:"column:hwid;size:128;index:idx_device_identity,unique" json:"hwid"`
	Serial string `gorm:"size:128;index:idx_device_identity,unique" json:"serial"`
	MAC    string `gorm:"size:64;index:idx_device_identity,unique"  json:"mac"`

	// Reason 在注册时为 "auto-registered"，封禁后改写为封禁原因
	IsBanned bool       `gorm:"index;default:false" json:"is_banned"`
	Reason   string     `gorm:"size:500"            json:"reason"`
	BannedAt *time.Time `json:"banned_at,omitempty"`

	FirstSeen time.Time `json:"first_seen"`
	LastSeen  time.Time `json:"last_seen"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
