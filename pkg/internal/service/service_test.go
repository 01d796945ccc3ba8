package service

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	ctxPkg "github.com/yeisme/patchvault/pkg/context"
	"github.com/yeisme/patchvault/pkg/internal/model"
	"github.com/yeisme/patchvault/pkg/internal/storage"
	"github.com/yeisme/patchvault/pkg/internal/storage/blob"
	dbc "github.com/yeisme/patchvault/pkg/internal/storage/db"
)

// newTestContext 构造带内存数据库与临时目录制品存储的请求上下文.
func newTestContext(t *testing.T) context.Context {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatal(err)
	}
	// 内存库每个连接各自独立，收敛到单连接
	sqlDB.SetMaxOpenConns(1)

	if err := gdb.AutoMigrate(
		&model.GameVersion{},
		&model.GameFile{},
		&model.UpdatePackage{},
		&model.LauncherBuild{},
		&model.NewsMessage{},
		&model.Device{},
		&model.DownloadLog{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	client := &dbc.Client{DB: gdb}

	// 与 storage.Init 相同的单行标志位兜底索引
	for _, idx := range [][3]string{
		{"idx_game_versions_one_latest", "game_versions", "is_latest"},
		{"idx_launcher_builds_one_current", "launcher_builds", "is_current"},
	} {
		if err := client.EnsurePartialUniqueIndex(idx[0], idx[1], idx[2]); err != nil {
			t.Fatalf("partial unique index: %v", err)
		}
	}

	store, err := blob.NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("blob store: %v", err)
	}

	t.Cleanup(func() { _ = store.Close() })

	mgr := &storage.Manager{
		DB:   client,
		Blob: store,
	}

	return ctxPkg.WithStorageManager(context.Background(), mgr)
}

// dbOf 取测试上下文里的 gorm 实例.
func dbOf(ctx context.Context) *gorm.DB {
	return ctxPkg.GetDBClient(ctx).GetDB()
}
