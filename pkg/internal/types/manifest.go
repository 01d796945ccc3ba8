package types

import "github.com/yeisme/patchvault/pkg/internal/model"

// GameManifest 游戏更新清单，客户端轮询 /api/update.json 获取.
// 键名为客户端既定协议，不做风格统一.
type GameManifest struct {
	LatestVersion string                `json:"latest_version"`
	Updates       []string              `json:"updates"`
	FileHashes    []model.ManifestEntry `json:"file_hashes"`
}

// LauncherManifest 启动器更新清单，/api/launcher_update.json.
type LauncherManifest struct {
	Version  string `json:"version"`
	FileName string `json:"file_name"`
}
