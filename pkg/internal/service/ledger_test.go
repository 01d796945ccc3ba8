package service

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/yeisme/patchvault/pkg/internal/model"
	"github.com/yeisme/patchvault/pkg/internal/types"
)

func TestLedgerRecordAndStats(t *testing.T) {
	ctx := newTestContext(t)
	svc := NewLedgerService(ctx)

	svc.Record(ctx, "10.0.0.1", "launcher/1.0", "update.json", model.FileTypeUpdateCheck, true)
	svc.Record(ctx, "10.0.0.1", "launcher/1.0", "update_1.0.0.2.zip", model.FileTypeUpdate, true)
	svc.Record(ctx, "10.0.0.2", "launcher/1.0", "update_1.0.0.2.zip", model.FileTypeUpdate, true)
	svc.Record(ctx, "10.0.0.2", "launcher/1.0", "missing.pak", model.FileTypeGameFile, false)

	stats, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}

	if stats.Total != 4 || stats.Successful != 3 || stats.Failed != 1 {
		t.Errorf("counts = %d/%d/%d, want 4/3/1", stats.Total, stats.Successful, stats.Failed)
	}

	if stats.SuccessRate != "75.00%" {
		t.Errorf("success_rate = %s, want 75.00%%", stats.SuccessRate)
	}

	if stats.DownloadsByType[model.FileTypeUpdate] != 2 {
		t.Errorf("downloads_by_type[update] = %d, want 2", stats.DownloadsByType[model.FileTypeUpdate])
	}

	if stats.UniqueIPs != 2 {
		t.Errorf("unique_ips = %d, want 2", stats.UniqueIPs)
	}

	if len(stats.PopularFiles) == 0 || stats.PopularFiles[0].FileRequested != "update_1.0.0.2.zip" {
		t.Errorf("popular_files = %v", stats.PopularFiles)
	}
}

func TestLedgerRecordNeverFails(t *testing.T) {
	ctx := newTestContext(t)
	svc := NewLedgerService(ctx)

	// 断开底层连接后 Record 仍不得 panic 或向上冒错
	sqlDB, err := dbOf(ctx).DB()
	if err != nil {
		t.Fatal(err)
	}

	_ = sqlDB.Close()

	svc.Record(ctx, "10.0.0.1", "ua", "update.json", model.FileTypeUpdateCheck, true)
}

func TestLedgerCleanupRequiresConfirm(t *testing.T) {
	ctx := newTestContext(t)
	svc := NewLedgerService(ctx)

	_, err := svc.Cleanup(ctx, &types.CleanupLogsRequest{Days: 30})
	if !errors.Is(err, ErrConfirmRequired) {
		t.Errorf("Cleanup() error = %v, want ErrConfirmRequired", err)
	}
}

func TestLedgerCleanupDeletesOldRows(t *testing.T) {
	ctx := newTestContext(t)
	svc := NewLedgerService(ctx)

	svc.Record(ctx, "10.0.0.1", "ua", "update.json", model.FileTypeUpdateCheck, true)

	old := model.DownloadLog{
		IPAddress:     "10.0.0.9",
		FileRequested: "old.pak",
		FileType:      model.FileTypeGameFile,
		Success:       true,
		CreatedAt:     time.Now().UTC().AddDate(0, 0, -90),
	}
	if err := dbOf(ctx).Create(&old).Error; err != nil {
		t.Fatal(err)
	}

	resp, err := svc.Cleanup(ctx, &types.CleanupLogsRequest{Days: 30, Confirm: true})
	if err != nil {
		t.Fatalf("Cleanup() error = %v", err)
	}

	if resp.Deleted != 1 {
		t.Errorf("deleted = %d, want 1", resp.Deleted)
	}

	var remaining int64
	if err := dbOf(ctx).Model(&model.DownloadLog{}).Count(&remaining).Error; err != nil {
		t.Fatal(err)
	}

	if remaining != 1 {
		t.Errorf("remaining = %d, want 1", remaining)
	}
}

func TestLedgerExportCSV(t *testing.T) {
	ctx := newTestContext(t)
	svc := NewLedgerService(ctx)

	svc.Record(ctx, "10.0.0.1", "ua", "update.json", model.FileTypeUpdateCheck, true)

	var buf bytes.Buffer
	if err := svc.ExportCSV(ctx, &buf); err != nil {
		t.Fatalf("ExportCSV() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("csv lines = %d, want header + 1 row", len(lines))
	}

	if !strings.HasPrefix(lines[0], "id,ip_address,user_agent") {
		t.Errorf("csv header = %s", lines[0])
	}

	if !strings.Contains(lines[1], "update.json") {
		t.Errorf("csv row = %s", lines[1])
	}
}
