// Package queue 定义消息主题常量与主题分组，供发布/订阅使用.
package queue

// 主题命名规范：pv.<域>.<动作>[.<状态>]，尽量稳定且向后兼容.
// 域：release(版本与制品)、ledger(下载台账)、device(设备准入)
// 动作：promoted(提升为最新/当前)、stored(制品入库)、recorded(台账落库)、registered/banned(设备状态)

const (
	// 版本与制品领域.
	TopicVersionPromoted  = "pv.release.version.promoted"  // 某游戏版本被提升为最新
	TopicLauncherPromoted = "pv.release.launcher.promoted" // 某启动器构建被提升为当前
	TopicPackageStored    = "pv.release.package.stored"    // 更新包写入制品存储并登记完成
	TopicFileStored       = "pv.release.file.stored"       // 游戏文件写入制品存储并登记完成

	// 下载台账领域.
	TopicDownloadRecorded = "pv.ledger.download.recorded" // 一次下载已记入台账

	// 设备准入领域.
	TopicDeviceRegistered = "pv.device.registered" // 新设备完成注册
	TopicDeviceBanned     = "pv.device.banned"     // 设备被封禁
)

// 主题分组，用于批量订阅或权限控制.
var (
	// 版本与制品相关主题集合.
	ReleaseTopics = []string{
		TopicVersionPromoted, TopicLauncherPromoted,
		TopicPackageStored, TopicFileStored,
	}

	// 下载台账相关主题集合.
	LedgerTopics = []string{
		TopicDownloadRecorded,
	}

	// 设备准入相关主题集合.
	DeviceTopics = []string{
		TopicDeviceRegistered, TopicDeviceBanned,
	}
)
