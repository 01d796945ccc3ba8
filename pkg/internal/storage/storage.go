// Package storage 聚合持久化资源：数据库、制品存储与消息队列.
//
// Example:
//
// 初始化
//
//	 ctx := context.Background()
//	 mgr, err := storage.Init(ctx)
//
//		if err != nil {
//		    // 处理错误
//		}
//
// 获取存储客户端
//
//	dbClient := mgr.GetDBClient()
//	store := mgr.GetBlobStore()
package storage

import (
	"context"
	"sync"

	"github.com/yeisme/patchvault/pkg/configs"
	"github.com/yeisme/patchvault/pkg/internal/model"
	"github.com/yeisme/patchvault/pkg/internal/storage/blob"
	dbc "github.com/yeisme/patchvault/pkg/internal/storage/db"
	mqc "github.com/yeisme/patchvault/pkg/internal/storage/mq"
	nlog "github.com/yeisme/patchvault/pkg/log"
)

// Manager 聚合所有存储资源.
type Manager struct {
	DB   *dbc.Client
	Blob blob.Store
	MQ   *mqc.Client
}

var (
	mgr     *Manager
	mgrOnce sync.Once
)

// Init 初始化默认存储，使用全局配置.重复调用只返回已初始化实例.
func Init(ctx context.Context) (*Manager, error) {
	var err error

	mgrOnce.Do(func() {
		cfg := configs.GetConfig()
		m := &Manager{}

		// DB
		dbi, e := dbc.New(ctx)
		if e != nil {
			err = e

			return
		}

		m.DB = dbi

		if e := dbi.AutoMigrate(
			&model.GameVersion{},
			&model.GameFile{},
			&model.UpdatePackage{},
			&model.LauncherBuild{},
			&model.NewsMessage{},
			&model.Device{},
			&model.DownloadLog{},
		); e != nil {
			err = e

			return
		}

		// 最新版本/当前构建的单行标志位由条件唯一索引兜底
		for _, idx := range [][3]string{
			{"idx_game_versions_one_latest", "game_versions", "is_latest"},
			{"idx_launcher_builds_one_current", "launcher_builds", "is_current"},
		} {
			if e := dbi.EnsurePartialUniqueIndex(idx[0], idx[1], idx[2]); e != nil {
				err = e

				return
			}
		}

		// Blob
		store, e := blob.New(ctx, &cfg.Blob)
		if e != nil {
			err = e

			return
		}

		m.Blob = store

		// MQ
		mqi, e := mqc.New(ctx)
		if e != nil {
			err = e

			return
		}

		m.MQ = mqi

		mgr = m

		nlog.Logger().Info().Msg("storage manager initialized")
	})

	return mgr, err
}

// GetDBClient 获取 DB 客户端.
func (m *Manager) GetDBClient() *dbc.Client {
	return m.DB
}

// GetBlobStore 获取制品存储后端.
func (m *Manager) GetBlobStore() blob.Store {
	return m.Blob
}

// GetMQClient 获取 MQ 客户端.
func (m *Manager) GetMQClient() *mqc.Client {
	return m.MQ
}

// Close 释放全部存储资源.
func (m *Manager) Close() error {
	var err error

	if m.MQ != nil {
		if e := m.MQ.Close(); e != nil {
			err = e
		}
	}

	if m.Blob != nil {
		if e := m.Blob.Close(); e != nil {
			err = e
		}
	}

	return err
}
