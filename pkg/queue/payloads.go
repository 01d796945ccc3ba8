package queue

import "time"

// EventHeader 定义所有事件的通用头部元数据.
// 建议在发布消息时填充 TraceID、OccurredAt、Producer 等，便于追踪链路与审计.
type EventHeader struct {
	// Topic 冗余记录消息主题，便于离线处理或转储后定位来源主题.
	Topic string `json:"topic"`
	// TraceID 分布式追踪/关联 ID，可来自中间件或业务生成.
	TraceID string `json:"trace_id,omitempty"`
	// Producer 生产者服务名或节点标识.
	Producer string `json:"producer,omitempty"`
	// OccurredAt 事件发生时间（UTC，RFC3339）.
	OccurredAt time.Time `json:"occurred_at"`
	// Version 事件负载版本，便于向后兼容演进.
	Version string `json:"version,omitempty"`
}

// Message 是统一的消息封装，Header + Payload.
// T 即不同主题对应的负载结构体.
type Message[T any] struct {
	Header  EventHeader `json:"header"`
	Payload T           `json:"payload"`
}

// -------------------------- 版本与制品领域 --------------------------

// ArtifactRef 标识制品存储中的一个对象.
type ArtifactRef struct {
	Key      string `json:"key"`
	FileName string `json:"file_name"`
	Size     int64  `json:"size,omitempty"`
	Digest   string `json:"digest,omitempty"`
}

// VersionPromotedPayload 某游戏版本被提升为最新.
type VersionPromotedPayload struct {
	Version     string `json:"version"`
	PrevVersion string `json:"prev_version,omitempty"`
}

// LauncherPromotedPayload 某启动器构建被提升为当前.
type LauncherPromotedPayload struct {
	Version  string `json:"version"`
	FileName string `json:"file_name"`
}

// PackageStoredPayload 更新包写入制品存储并登记完成.
type PackageStoredPayload struct {
	Artifact ArtifactRef `json:"artifact"`
	Version  string      `json:"version"`
}

// FileStoredPayload 游戏文件写入制品存储并登记完成.
type FileStoredPayload struct {
	Artifact     ArtifactRef `json:"artifact"`
	Version      string      `json:"version"`
	RelativePath string      `json:"relative_path,omitempty"`
}

// -------------------------- 下载台账领域 --------------------------

// DownloadRecordedPayload 一次下载已记入台账.
type DownloadRecordedPayload struct {
	FileName  string `json:"file_name"`
	FileType  string `json:"file_type"`
	DeviceID  string `json:"device_id,omitempty"`
	ClientIP  string `json:"client_ip,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`
}

// -------------------------- 设备准入领域 --------------------------

// DeviceRegisteredPayload 新设备完成注册.
type DeviceRegisteredPayload struct {
	DeviceID string `json:"device_id"`
	ClientIP string `json:"client_ip,omitempty"`
}

// DeviceBannedPayload 设备被封禁.
type DeviceBannedPayload struct {
	DeviceID string `json:"device_id"`
	Reason   string `json:"reason,omitempty"`
}
