package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/yeisme/patchvault/pkg/internal/model"
	"github.com/yeisme/patchvault/pkg/internal/types"
	nlog "github.com/yeisme/patchvault/pkg/log"
	"github.com/yeisme/patchvault/pkg/queue"
)

// LedgerService 下载台账.
type LedgerService struct{ base }

func NewLedgerService(c context.Context) *LedgerService {
	return &LedgerService{newBase(c)}
}

const (
	popularFilesLimit = 10
	hoursPerDay       = 24
)

// Record 记一笔台账。纯旁路：写库或发事件失败只记日志，绝不影响主流程.
func (s *LedgerService) Record(ctx context.Context, ip, userAgent, fileRequested, fileType string, success bool) {
	if s.dbc == nil {
		return
	}

	row := model.DownloadLog{
		IPAddress:     ip,
		UserAgent:     userAgent,
		FileRequested: fileRequested,
		FileType:      fileType,
		Success:       success,
	}

	if err := s.dbc.GetDB().WithContext(ctx).Create(&row).Error; err != nil {
		nlog.Logger().Warn().Err(err).
			Str("file", fileRequested).
			Str("type", fileType).
			Msg("record download log failed")

		return
	}

	if s.mqc != nil {
		if err := queue.PublishDownloadRecorded(mqPublisher{s.mqc}, queue.DownloadRecordedPayload{
			FileName:  fileRequested,
			FileType:  fileType,
			ClientIP:  ip,
			UserAgent: userAgent,
		}); err != nil {
			nlog.Logger().Warn().Err(err).Str("file", fileRequested).Msg("publish download recorded event failed")
		}
	}
}

// List 分页查询台账，可按 file_type 与 IP 过滤.
func (s *LedgerService) List(ctx context.Context, req *types.ListLogsRequest) (*types.ListLogsResponse, error) {
	const defaultSize = 100

	page := req.Page
	if page < 1 {
		page = 1
	}

	size := req.Size
	if size < 1 {
		size = defaultSize
	}

	q := s.dbc.GetDB().WithContext(ctx).Model(&model.DownloadLog{})
	if req.FileType != "" {
		q = q.Where("file_type = ?", req.FileType)
	}

	if req.IP != "" {
		q = q.Where("ip_address = ?", req.IP)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count logs: %w", err)
	}

	var logs []model.DownloadLog
	if err := q.Order("created_at DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}

	out := make([]types.LogEntry, 0, len(logs))
	for i := range logs {
		l := &logs[i]
		out = append(out, types.LogEntry{
			ID:            l.ID,
			IPAddress:     l.IPAddress,
			UserAgent:     l.UserAgent,
			FileRequested: l.FileRequested,
			FileType:      l.FileType,
			Success:       l.Success,
			CreatedAt:     l.CreatedAt,
		})
	}

	return &types.ListLogsResponse{Logs: out, Total: total, Page: page, Size: size}, nil
}

// Stats 汇总台账：总量、成功率、按类型分布、热门文件、独立 IP 数.
func (s *LedgerService) Stats(ctx context.Context) (*types.LogStats, error) {
	dbx := s.dbc.GetDB().WithContext(ctx)

	stats := &types.LogStats{DownloadsByType: map[string]int64{}}

	if err := dbx.Model(&model.DownloadLog{}).Count(&stats.Total).Error; err != nil {
		return nil, fmt.Errorf("count logs: %w", err)
	}

	if err := dbx.Model(&model.DownloadLog{}).
		Where("success = ?", true).
		Count(&stats.Successful).Error; err != nil {
		return nil, fmt.Errorf("count successful logs: %w", err)
	}

	stats.Failed = stats.Total - stats.Successful

	if stats.Total > 0 {
		const percent = 100

		stats.SuccessRate = fmt.Sprintf("%.2f%%", float64(stats.Successful)/float64(stats.Total)*percent)
	} else {
		stats.SuccessRate = "0.00%"
	}

	typeRows := []struct {
		FileType string
		Cnt      int64
	}{}
	if err := dbx.Model(&model.DownloadLog{}).
		Select("file_type, COUNT(*) as cnt").
		Group("file_type").
		Scan(&typeRows).Error; err != nil {
		return nil, fmt.Errorf("group logs by type: %w", err)
	}

	for _, r := range typeRows {
		stats.DownloadsByType[r.FileType] = r.Cnt
	}

	popRows := []struct {
		FileRequested string
		Cnt           int64
	}{}
	if err := dbx.Model(&model.DownloadLog{}).
		Select("file_requested, COUNT(*) as cnt").
		Group("file_requested").
		Order("cnt DESC").
		Limit(popularFilesLimit).
		Scan(&popRows).Error; err != nil {
		return nil, fmt.Errorf("top files: %w", err)
	}

	stats.PopularFiles = make([]types.PopularFile, 0, len(popRows))
	for _, r := range popRows {
		stats.PopularFiles = append(stats.PopularFiles, types.PopularFile{
			FileRequested: r.FileRequested,
			Count:         r.Cnt,
		})
	}

	if err := dbx.Model(&model.DownloadLog{}).
		Distinct("ip_address").
		Count(&stats.UniqueIPs).Error; err != nil {
		return nil, fmt.Errorf("count unique ips: %w", err)
	}

	return stats, nil
}

// Cleanup 删除 N 天前的台账，必须显式确认.
func (s *LedgerService) Cleanup(ctx context.Context, req *types.CleanupLogsRequest) (*types.CleanupLogsResponse, error) {
	if !req.Confirm {
		return nil, ErrConfirmRequired
	}

	if req.Days < 1 {
		return nil, fmt.Errorf("days must be positive")
	}

	before := time.Now().UTC().Add(-time.Duration(req.Days) * hoursPerDay * time.Hour)

	res := s.dbc.GetDB().WithContext(ctx).
		Where("created_at < ?", before).
		Delete(&model.DownloadLog{})
	if res.Error != nil {
		return nil, fmt.Errorf("cleanup logs: %w", res.Error)
	}

	nlog.Logger().Info().
		Int64("deleted", res.RowsAffected).
		Time("before", before).
		Msg("download logs cleaned up")

	return &types.CleanupLogsResponse{Deleted: res.RowsAffected, Before: before}, nil
}

// Purge 按保留天数清理，供定时任务与 CLI 使用，确认由调用方完成.
func (s *LedgerService) Purge(ctx context.Context, days int) (int64, error) {
	resp, err := s.Cleanup(ctx, &types.CleanupLogsRequest{Days: days, Confirm: true})
	if err != nil {
		return 0, err
	}

	return resp.Deleted, nil
}

// ExportCSV 将全部台账以 CSV 写出.
func (s *LedgerService) ExportCSV(ctx context.Context, w io.Writer) error {
	dbx := s.dbc.GetDB().WithContext(ctx)

	var logs []model.DownloadLog
	if err := dbx.Order("created_at").Find(&logs).Error; err != nil {
		return fmt.Errorf("load logs: %w", err)
	}

	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"id", "ip_address", "user_agent", "file_requested", "file_type", "success", "created_at"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for i := range logs {
		l := &logs[i]

		rec := []string{
			strconv.FormatUint(uint64(l.ID), 10),
			l.IPAddress,
			l.UserAgent,
			l.FileRequested,
			l.FileType,
			strconv.FormatBool(l.Success),
			l.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()

	return cw.Error()
}
