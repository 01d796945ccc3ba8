package queue

import (
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/yeisme/patchvault/pkg/configs"
)

// -------------------------- 基于业务封装 events --------------------------
//
// 每个 Publish* 先检查配置中对应的事件开关，关闭时静默跳过，
// 业务侧无需自己判断配置。

// eventsEnabled 读取全局事件总开关.
func eventsEnabled() bool {
	return configs.GetConfig().Events.Enabled
}

// PublishVersionPromoted 发布 pv.release.version.promoted 事件.
func PublishVersionPromoted(pub message.Publisher, payload VersionPromotedPayload, opts ...func(*EventHeader)) error {
	if !eventsEnabled() || !configs.GetConfig().Events.Release.VersionPromoted {
		return nil
	}

	msg, err := NewWatermillMessage(TopicVersionPromoted, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicVersionPromoted, msg)
}

// PublishLauncherPromoted 发布 pv.release.launcher.promoted 事件.
func PublishLauncherPromoted(pub message.Publisher, payload LauncherPromotedPayload, opts ...func(*EventHeader)) error {
	if !eventsEnabled() || !configs.GetConfig().Events.Release.LauncherPromoted {
		return nil
	}

	msg, err := NewWatermillMessage(TopicLauncherPromoted, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicLauncherPromoted, msg)
}

// PublishPackageStored 发布 pv.release.package.stored 事件.
func PublishPackageStored(pub message.Publisher, payload PackageStoredPayload, opts ...func(*EventHeader)) error {
	if !eventsEnabled() || !configs.GetConfig().Events.Release.PackageStored {
		return nil
	}

	msg, err := NewWatermillMessage(TopicPackageStored, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicPackageStored, msg)
}

// PublishFileStored 发布 pv.release.file.stored 事件，默认关闭，批量上传时噪音较大.
func PublishFileStored(pub message.Publisher, payload FileStoredPayload, opts ...func(*EventHeader)) error {
	if !eventsEnabled() || !configs.GetConfig().Events.Release.FileStored {
		return nil
	}

	msg, err := NewWatermillMessage(TopicFileStored, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicFileStored, msg)
}

// PublishDownloadRecorded 发布 pv.ledger.download.recorded 事件.
func PublishDownloadRecorded(pub message.Publisher, payload DownloadRecordedPayload, opts ...func(*EventHeader)) error {
	if !eventsEnabled() || !configs.GetConfig().Events.Ledger.DownloadRecorded {
		return nil
	}

	msg, err := NewWatermillMessage(TopicDownloadRecorded, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicDownloadRecorded, msg)
}

// PublishDeviceRegistered 发布 pv.device.registered 事件.
func PublishDeviceRegistered(pub message.Publisher, payload DeviceRegisteredPayload, opts ...func(*EventHeader)) error {
	if !eventsEnabled() || !configs.GetConfig().Events.Device.Registered {
		return nil
	}

	msg, err := NewWatermillMessage(TopicDeviceRegistered, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicDeviceRegistered, msg)
}

// PublishDeviceBanned 发布 pv.device.banned 事件.
func PublishDeviceBanned(pub message.Publisher, payload DeviceBannedPayload, opts ...func(*EventHeader)) error {
	if !eventsEnabled() || !configs.GetConfig().Events.Device.Banned {
		return nil
	}

	msg, err := NewWatermillMessage(TopicDeviceBanned, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicDeviceBanned, msg)
}

// ParseDownloadRecorded 将 Watermill 消息解析为强类型 Envelope（DownloadRecordedPayload）.
func ParseDownloadRecorded(msg *message.Message) (Message[DownloadRecordedPayload], error) {
	return ParseWatermillMessage[DownloadRecordedPayload](msg)
}
