package types

import "time"

// DeviceCheckRequest 设备准入检查，三个硬件标识至少提供一个.
type DeviceCheckRequest struct {
	HWID   string `json:"hwid"   rule:"max=128"`
	Serial string `json:"serial" rule:"max=128"`
	MAC    string `json:"mac"    rule:"max=64"`
}

// 准入结果的三种状态.
const (
	DeviceStatusOK         = "ok"         // 已注册且未封禁
	DeviceStatusRegistered = "registered" // 本次请求完成注册
	DeviceStatusBanned     = "banned"
)

// DeviceCheckResponse 准入结果，键名与客户端协议保持一致.
// banned_since 仅在封禁时返回，first_seen 仅在已注册未封禁时返回.
type DeviceCheckResponse struct {
	Status          string     `json:"status"`
	IsBanned        bool       `json:"is_banned"`
	Message         string     `json:"message,omitempty"`
	DeviceID        string     `json:"device_id"`
	NewlyRegistered bool       `json:"newly_registered,omitempty"`
	BannedSince     *time.Time `json:"banned_since,omitempty"`
	FirstSeen       *time.Time `json:"first_seen,omitempty"`
}

// BanDeviceRequest 封禁设备.
type BanDeviceRequest struct {
	Reason string `json:"reason" rule:"max=500"`
}

// DeviceInfo 设备详情（管理端）.
type DeviceInfo struct {
	ID        uint       `json:"id"`
	DeviceID  string     `json:"device_id"`
	HWID      string     `json:"hwid,omitempty"`
	Serial    string     `json:"serial,omitempty"`
	MAC       string     `json:"mac,omitempty"`
	IsBanned  bool       `json:"is_banned"`
	Reason    string     `json:"reason,omitempty"`
	BannedAt  *time.Time `json:"banned_at,omitempty"`
	FirstSeen time.Time  `json:"first_seen"`
	LastSeen  time.Time  `json:"last_seen"`
}

// ListDevicesResponse 设备列表.
type ListDevicesResponse struct {
	Devices []DeviceInfo `json:"devices"`
	Total   int64        `json:"total"`
	Page    int          `json:"page"`
	Size    int          `json:"size"`
}
