// Package jobs 负责注册与实现业务定时任务（基于 scheduler）。
package jobs

import (
	"context"
	"fmt"

	"github.com/yeisme/patchvault/pkg/configs"
	ctxPkg "github.com/yeisme/patchvault/pkg/context"
	"github.com/yeisme/patchvault/pkg/internal/service"
	"github.com/yeisme/patchvault/pkg/internal/storage"
	"github.com/yeisme/patchvault/pkg/log"
	"github.com/yeisme/patchvault/pkg/scheduler"
)

// RegisterCronJobs 配置业务定时任务：
//   - 按 retention.cron（默认每天 03:30）清理超过保留天数的下载台账
func RegisterCronJobs(sched *scheduler.Scheduler, mgr *storage.Manager, cfg configs.RetentionConfig) error {
	if sched == nil {
		return fmt.Errorf("scheduler is nil")
	}

	if mgr == nil {
		return fmt.Errorf("storage manager is nil")
	}

	if !cfg.Enabled {
		return nil
	}

	// 将 storage manager 注入到 context，便于 service 使用
	baseCtx := ctxPkg.WithStorageManager(context.Background(), mgr)

	return sched.AddCron(JobLedgerRetention, cfg.Cron, func(ctx context.Context) {
		runLedgerRetention(ctx, cfg.Days)
	}, baseCtx)
}

// runLedgerRetention 清理超过保留天数的下载台账记录.
func runLedgerRetention(ctx context.Context, days int) {
	l := log.Logger().With().Str("job", JobLedgerRetention).Logger()

	n, err := service.NewLedgerService(ctx).Purge(ctx, days)
	if err != nil {
		l.Error().Err(err).Int("days", days).Msg("ledger retention purge failed")

		return
	}

	if n > 0 {
		l.Info().Int64("deleted", n).Int("days", days).Msg("purged expired download logs")
	}
}
