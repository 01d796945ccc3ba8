package configs

import "github.com/spf13/viper"

// AuthConfig 控制管理端接口的令牌校验（X-Admin-Token 请求头，或 Authorization: Bearer）。
type AuthConfig struct {
	Enabled   bool     `mapstructure:"enabled"`    // 开启管理端认证校验
	Token     string   `mapstructure:"token"`      // 管理令牌，空值时拒绝所有管理请求
	Header    string   `mapstructure:"header"`     // 承载令牌的请求头
	SkipPaths []string `mapstructure:"skip_paths"` // 跳过认证的路径前缀（如 /metrics、/api/health）
}

func (c *AuthConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("auth.enabled", true)
	v.SetDefault("auth.token", "")
	v.SetDefault("auth.header", "X-Admin-Token")
	v.SetDefault("auth.skip_paths", []string{
		"/metrics",
		"/debug/pprof",
		"/api/health",
	})
}
