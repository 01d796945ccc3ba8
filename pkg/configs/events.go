package configs

import "github.com/spf13/viper"

// EventsConfig 控制领域事件发布的开关（全局与分主题）。
type EventsConfig struct {
	Enabled bool                `mapstructure:"enabled"` // 总开关
	Release ReleaseEventsConfig `mapstructure:"release"`
	Ledger  LedgerEventsConfig  `mapstructure:"ledger"`
	Device  DeviceEventsConfig  `mapstructure:"device"`
}

// ReleaseEventsConfig 针对版本与制品领域的事件开关。
type ReleaseEventsConfig struct {
	VersionPromoted  bool `mapstructure:"version_promoted"`
	LauncherPromoted bool `mapstructure:"launcher_promoted"`
	PackageStored    bool `mapstructure:"package_stored"`
	FileStored       bool `mapstructure:"file_stored"`
}

// LedgerEventsConfig 下载台账事件开关。
type LedgerEventsConfig struct {
	DownloadRecorded bool `mapstructure:"download_recorded"`
}

// DeviceEventsConfig 设备准入事件开关。
type DeviceEventsConfig struct {
	Registered bool `mapstructure:"registered"`
	Banned     bool `mapstructure:"banned"`
}

func (c *EventsConfig) setDefaults(v *viper.Viper) {
	// 总开关：默认启用事件系统
	v.SetDefault("events.enabled", true)

	// 版本/制品领域事件：默认仅开启最小必要集
	v.SetDefault("events.release.version_promoted", true)
	v.SetDefault("events.release.launcher_promoted", true)
	v.SetDefault("events.release.package_stored", true)

	// 文件级事件量大，默认关闭，按需开启
	v.SetDefault("events.release.file_stored", false)

	// 台账事件驱动内置的下载计数订阅者，默认开启
	v.SetDefault("events.ledger.download_recorded", true)

	// 设备事件
	v.SetDefault("events.device.registered", false)
	v.SetDefault("events.device.banned", true)
}
