package configs

import "github.com/spf13/viper"

const (
	DefaultRetentionEnabled = true          // 是否启用台账保留策略
	DefaultRetentionDays    = 30            // 下载台账保留天数
	DefaultRetentionCron    = "30 3 * * *"  // 每天 03:30 执行清理
)

// RetentionConfig 下载台账的保留策略，由定时任务执行过期清理.
type RetentionConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Days    int    `mapstructure:"days" rule:"min=1,max=3650"`
	Cron    string `mapstructure:"cron"`
}

func (c *RetentionConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("retention.enabled", DefaultRetentionEnabled)
	v.SetDefault("retention.days", DefaultRetentionDays)
	v.SetDefault("retention.cron", DefaultRetentionCron)
}
