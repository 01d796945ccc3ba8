package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"

	"github.com/yeisme/patchvault/pkg/internal/model"
	"github.com/yeisme/patchvault/pkg/internal/storage/db"
	"github.com/yeisme/patchvault/pkg/internal/types"
	nlog "github.com/yeisme/patchvault/pkg/log"
	"github.com/yeisme/patchvault/pkg/queue"
	versionpkg "github.com/yeisme/patchvault/pkg/version"
)

// VersionService 游戏版本注册表.
type VersionService struct{ base }

func NewVersionService(c context.Context) *VersionService {
	return &VersionService{newBase(c)}
}

// Create 登记新版本，版本号全局唯一，可选立刻提升为最新.
func (s *VersionService) Create(ctx context.Context, req *types.CreateVersionRequest) (*types.VersionInfo, error) {
	v := strings.TrimSpace(req.Version)
	if !versionpkg.IsValid(v) {
		return nil, fmt.Errorf("invalid version %q", req.Version)
	}

	dbx := s.dbc.GetDB().WithContext(ctx)

	var count int64
	if err := dbx.Model(&model.GameVersion{}).Where("version = ?", v).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check version %s: %w", v, err)
	}

	if count > 0 {
		return nil, ErrDuplicateVersion
	}

	gv := model.GameVersion{
		Version:      v,
		ReleaseNotes: req.ReleaseNotes,
		CreatedBy:    req.CreatedBy,
	}

	if err := dbx.Create(&gv).Error; err != nil {
		// 并发创建同一版本时唯一索引兜底
		if isUniqueViolation(err) {
			return nil, ErrDuplicateVersion
		}

		return nil, fmt.Errorf("create version %s: %w", v, err)
	}

	if req.SetLatest {
		if err := s.Promote(ctx, gv.ID); err != nil {
			return nil, err
		}

		gv.IsLatest = true
	}

	info := versionToInfo(&gv, 0, false)

	return &info, nil
}

// Promote 将指定版本提升为最新，同一事务内锁定目标与持有标记的行，
// 再清除旧标记、落新标记；任一时刻至多一条 is_latest.
func (s *VersionService) Promote(ctx context.Context, id uint) error {
	dbx := s.dbc.GetDB().WithContext(ctx)

	var target model.GameVersion

	var prev string

	err := dbx.Transaction(func(tx *gorm.DB) error {
		if err := db.LockForUpdate(tx).First(&target, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrVersionNotFound
			}

			return err
		}

		// 锁住当前持有者，并发 promote 在这里串行化
		var current model.GameVersion
		if err := db.LockForUpdate(tx).Where("is_latest = ?", true).First(&current).Error; err == nil {
			prev = current.Version
		}

		if err := tx.Model(&model.GameVersion{}).
			Where("is_latest = ?", true).
			Update("is_latest", false).Error; err != nil {
			return err
		}

		return tx.Model(&target).Update("is_latest", true).Error
	})
	if err != nil {
		if errors.Is(err, ErrVersionNotFound) {
			return err
		}

		return fmt.Errorf("promote version %d: %w", id, err)
	}

	if s.mqc != nil {
		if err := queue.PublishVersionPromoted(mqPublisher{s.mqc}, queue.VersionPromotedPayload{
			Version:     target.Version,
			PrevVersion: prev,
		}); err != nil {
			nlog.Logger().Warn().Err(err).Str("version", target.Version).Msg("publish version promoted event failed")
		}
	}

	return nil
}

// Delete 删除版本及其文件清单与更新包。最新版本拒绝删除；
// 数据库行在事务内删除，制品字节在提交后尽力清理，失败只记日志.
func (s *VersionService) Delete(ctx context.Context, id uint) error {
	dbx := s.dbc.GetDB().WithContext(ctx)

	var blobKeys []string

	err := dbx.Transaction(func(tx *gorm.DB) error {
		var gv model.GameVersion
		if err := tx.First(&gv, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrVersionNotFound
			}

			return err
		}

		if gv.IsLatest {
			return ErrCannotDeleteLatest
		}

		var files []model.GameFile
		if err := tx.Where("version_id = ?", id).Find(&files).Error; err != nil {
			return err
		}

		for _, f := range files {
			if f.BlobKey != "" {
				blobKeys = append(blobKeys, f.BlobKey)
			}
		}

		var pkgs []model.UpdatePackage
		if err := tx.Where("version_id = ?", id).Find(&pkgs).Error; err != nil {
			return err
		}

		for _, p := range pkgs {
			if p.BlobKey != "" {
				blobKeys = append(blobKeys, p.BlobKey)
			}
		}

		if err := tx.Where("version_id = ?", id).Delete(&model.GameFile{}).Error; err != nil {
			return err
		}

		if err := tx.Where("version_id = ?", id).Delete(&model.UpdatePackage{}).Error; err != nil {
			return err
		}

		return tx.Delete(&gv).Error
	})
	if err != nil {
		if errors.Is(err, ErrVersionNotFound) || errors.Is(err, ErrCannotDeleteLatest) {
			return err
		}

		return fmt.Errorf("delete version %d: %w", id, err)
	}

	s.removeBlobs(ctx, blobKeys)

	return nil
}

// List 列出所有版本，按版本号降序.
func (s *VersionService) List(ctx context.Context) (*types.ListVersionsResponse, error) {
	dbx := s.dbc.GetDB().WithContext(ctx)

	var versions []model.GameVersion
	if err := dbx.Find(&versions).Error; err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}

	// 四段式数值比较无法下推到 SQL，取全量后在内存排序
	sort.Slice(versions, func(i, j int) bool {
		return versionpkg.Less(versions[j].Version, versions[i].Version)
	})

	out := make([]types.VersionInfo, 0, len(versions))

	for i := range versions {
		gv := &versions[i]

		var fileCount int64
		if err := dbx.Model(&model.GameFile{}).Where("version_id = ?", gv.ID).Count(&fileCount).Error; err != nil {
			return nil, err
		}

		var pkgCount int64
		if err := dbx.Model(&model.UpdatePackage{}).Where("version_id = ?", gv.ID).Count(&pkgCount).Error; err != nil {
			return nil, err
		}

		out = append(out, versionToInfo(gv, fileCount, pkgCount > 0))
	}

	return &types.ListVersionsResponse{Versions: out, Total: len(out)}, nil
}

// Latest 返回当前最新版本，不存在时返回 ErrVersionNotFound.
func (s *VersionService) Latest(ctx context.Context) (*model.GameVersion, error) {
	dbx := s.dbc.GetDB().WithContext(ctx)

	var gv model.GameVersion
	if err := dbx.Where("is_latest = ?", true).First(&gv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVersionNotFound
		}

		return nil, fmt.Errorf("query latest version: %w", err)
	}

	return &gv, nil
}

// Get 按 ID 取行.
func (s *VersionService) Get(ctx context.Context, id uint) (*model.GameVersion, error) {
	dbx := s.dbc.GetDB().WithContext(ctx)

	var gv model.GameVersion
	if err := dbx.First(&gv, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVersionNotFound
		}

		return nil, err
	}

	return &gv, nil
}

// GetByVersion 按版本号取行.
func (s *VersionService) GetByVersion(ctx context.Context, v string) (*model.GameVersion, error) {
	dbx := s.dbc.GetDB().WithContext(ctx)

	var gv model.GameVersion
	if err := dbx.Where("version = ?", v).First(&gv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVersionNotFound
		}

		return nil, err
	}

	return &gv, nil
}

// removeBlobs 提交后清理制品字节，失败只记日志，不回滚业务.
func (s *base) removeBlobs(ctx context.Context, keys []string) {
	if s.blob == nil {
		return
	}

	for _, key := range keys {
		if err := s.blob.Remove(ctx, key); err != nil {
			nlog.Logger().Warn().Err(err).Str("key", key).Msg("remove blob failed")
		}
	}
}

func versionToInfo(gv *model.GameVersion, fileCount int64, hasPackage bool) types.VersionInfo {
	return types.VersionInfo{
		ID:           gv.ID,
		Version:      gv.Version,
		IsLatest:     gv.IsLatest,
		ReleaseNotes: gv.ReleaseNotes,
		CreatedBy:    gv.CreatedBy,
		FileCount:    fileCount,
		HasPackage:   hasPackage,
		CreatedAt:    gv.CreatedAt,
	}
}

// isUniqueViolation 粗略判断唯一约束冲突，覆盖 sqlite/mysql/postgres 的报错文案.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	msg := strings.ToLower(err.Error())

	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}
