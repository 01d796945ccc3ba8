package types

import "time"

// ListLogsRequest 下载台账查询参数.
type ListLogsRequest struct {
	FileType string `form:"file_type" rule:"omitempty,max=50"`
	IP       string `form:"ip"        rule:"omitempty,max=45"`
	Page     int    `form:"page"      rule:"omitempty,min=1"`
	Size     int    `form:"size"      rule:"omitempty,min=1,max=500"`
}

// LogEntry 单条台账记录.
type LogEntry struct {
	ID            uint      `json:"id"`
	IPAddress     string    `json:"ip_address"`
	UserAgent     string    `json:"user_agent,omitempty"`
	FileRequested string    `json:"file_requested"`
	FileType      string    `json:"file_type"`
	Success       bool      `json:"success"`
	CreatedAt     time.Time `json:"created_at"`
}

// ListLogsResponse 台账分页结果.
type ListLogsResponse struct {
	Logs  []LogEntry `json:"logs"`
	Total int64      `json:"total"`
	Page  int        `json:"page"`
	Size  int        `json:"size"`
}

// PopularFile 下载热度条目.
type PopularFile struct {
	FileRequested string `json:"file_requested"`
	Count         int64  `json:"count"`
}

// LogStats 台账统计.
type LogStats struct {
	Total       int64  `json:"total"`
	Successful  int64  `json:"successful"`
	Failed      int64  `json:"failed"`
	SuccessRate string `json:"success_rate"` // 两位小数百分比，如 "98.25%"

	DownloadsByType map[string]int64 `json:"downloads_by_type"`
	PopularFiles    []PopularFile    `json:"popular_files"`
	UniqueIPs       int64            `json:"unique_ips"`
}

// CleanupLogsRequest 台账清理，必须显式确认.
type CleanupLogsRequest struct {
	Days    int  `json:"days"    rule:"required,min=1"`
	Confirm bool `json:"confirm"`
}

// CleanupLogsResponse 清理结果.
type CleanupLogsResponse struct {
	Deleted int64     `json:"deleted"`
	Before  time.Time `json:"before"`
}
