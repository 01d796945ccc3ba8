package types

import "time"

// StatusResponse 服务状态概览，/api/status.
type StatusResponse struct {
	Status          string    `json:"status"`
	LatestVersion   string    `json:"latest_version"`
	LauncherVersion string    `json:"launcher_version"`
	TotalFiles      int64     `json:"total_files"`
	TotalPackages   int64     `json:"total_packages"`
	Timestamp       time.Time `json:"timestamp"`
}
