package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"gorm.io/gorm"

	"github.com/yeisme/patchvault/pkg/digest"
	"github.com/yeisme/patchvault/pkg/internal/model"
	"github.com/yeisme/patchvault/pkg/internal/storage/blob"
	"github.com/yeisme/patchvault/pkg/internal/storage/db"
	"github.com/yeisme/patchvault/pkg/internal/types"
	nlog "github.com/yeisme/patchvault/pkg/log"
	"github.com/yeisme/patchvault/pkg/queue"
	versionpkg "github.com/yeisme/patchvault/pkg/version"
)

// LauncherService 启动器构建注册表，同一时刻至多一条 is_current.
type LauncherService struct{ base }

func NewLauncherService(c context.Context) *LauncherService {
	return &LauncherService{newBase(c)}
}

// Upload 上传启动器构建并登记，摘要与大小由服务端计算.
func (s *LauncherService) Upload(ctx context.Context, req *types.CreateLauncherRequest,
	filename string, r io.Reader,
) (*types.LauncherInfo, error) {
	v := strings.TrimSpace(req.Version)
	if !versionpkg.IsValid(v) {
		return nil, fmt.Errorf("invalid version %q", req.Version)
	}

	key, err := blob.Key(blob.AreaLauncher, fmt.Sprintf("%s_%s", v, filename))
	if err != nil {
		return nil, err
	}

	h := digest.New()

	size, err := s.blob.Put(ctx, key, io.TeeReader(r, h), -1)
	if err != nil {
		return nil, fmt.Errorf("store launcher %s: %w", filename, err)
	}

	row := model.LauncherBuild{
		Version:      v,
		Filename:     filename,
		BlobKey:      key,
		FileSize:     size,
		MD5Hash:      digest.Hex(h),
		ReleaseNotes: req.ReleaseNotes,
		CreatedBy:    req.CreatedBy,
	}

	dbx := s.dbc.GetDB().WithContext(ctx)
	if err := dbx.Create(&row).Error; err != nil {
		return nil, fmt.Errorf("create launcher build %s: %w", v, err)
	}

	if req.SetCurrent {
		if err := s.Promote(ctx, row.ID); err != nil {
			return nil, err
		}

		row.IsCurrent = true
	}

	info := launcherToInfo(&row)

	return &info, nil
}

// Promote 将指定构建提升为当前，同一事务内锁定目标与持有标记的行，
// 再清除旧标记、落新标记.
func (s *LauncherService) Promote(ctx context.Context, id uint) error {
	dbx := s.dbc.GetDB().WithContext(ctx)

	var target model.LauncherBuild

	err := dbx.Transaction(func(tx *gorm.DB) error {
		if err := db.LockForUpdate(tx).First(&target, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrLauncherNotFound
			}

			return err
		}

		// 锁住当前持有者，并发 promote 在这里串行化
		var current model.LauncherBuild
		if err := db.LockForUpdate(tx).Where("is_current = ?", true).
			First(&current).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := tx.Model(&model.LauncherBuild{}).
			Where("is_current = ?", true).
			Update("is_current", false).Error; err != nil {
			return err
		}

		return tx.Model(&target).Update("is_current", true).Error
	})
	if err != nil {
		if errors.Is(err, ErrLauncherNotFound) {
			return err
		}

		return fmt.Errorf("promote launcher %d: %w", id, err)
	}

	if s.mqc != nil {
		if err := queue.PublishLauncherPromoted(mqPublisher{s.mqc}, queue.LauncherPromotedPayload{
			Version:  target.Version,
			FileName: target.Filename,
		}); err != nil {
			nlog.Logger().Warn().Err(err).Str("version", target.Version).Msg("publish launcher promoted event failed")
		}
	}

	return nil
}

// Delete 删除构建，当前构建拒绝删除.
func (s *LauncherService) Delete(ctx context.Context, id uint) error {
	dbx := s.dbc.GetDB().WithContext(ctx)

	var b model.LauncherBuild
	if err := dbx.First(&b, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLauncherNotFound
		}

		return fmt.Errorf("load launcher %d: %w", id, err)
	}

	if b.IsCurrent {
		return ErrCannotDeleteCurrent
	}

	if err := dbx.Delete(&b).Error; err != nil {
		return fmt.Errorf("delete launcher %d: %w", id, err)
	}

	if b.BlobKey != "" {
		s.removeBlobs(ctx, []string{b.BlobKey})
	}

	return nil
}

// List 列出全部构建，按版本号降序.
func (s *LauncherService) List(ctx context.Context) (*types.ListLaunchersResponse, error) {
	dbx := s.dbc.GetDB().WithContext(ctx)

	var builds []model.LauncherBuild
	if err := dbx.Find(&builds).Error; err != nil {
		return nil, fmt.Errorf("list launchers: %w", err)
	}

	sort.Slice(builds, func(i, j int) bool {
		return versionpkg.Less(builds[j].Version, builds[i].Version)
	})

	out := make([]types.LauncherInfo, 0, len(builds))
	for i := range builds {
		out = append(out, launcherToInfo(&builds[i]))
	}

	return &types.ListLaunchersResponse{Launchers: out, Total: len(out)}, nil
}

// Current 返回当前构建，不存在时返回 ErrLauncherNotFound.
func (s *LauncherService) Current(ctx context.Context) (*model.LauncherBuild, error) {
	dbx := s.dbc.GetDB().WithContext(ctx)

	var b model.LauncherBuild
	if err := dbx.Where("is_current = ?", true).First(&b).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLauncherNotFound
		}

		return nil, fmt.Errorf("query current launcher: %w", err)
	}

	return &b, nil
}

// Open 打开当前构建的制品，供 LauncherUpdater 下载端点使用.
func (s *LauncherService) Open(ctx context.Context) (io.ReadCloser, *model.LauncherBuild, error) {
	b, err := s.Current(ctx)
	if err != nil {
		return nil, nil, err
	}

	rc, err := s.blob.Get(ctx, b.BlobKey)
	if err != nil {
		return nil, b, fmt.Errorf("%w: %s", ErrLauncherNotFound, b.Filename)
	}

	return rc, b, nil
}

func launcherToInfo(b *model.LauncherBuild) types.LauncherInfo {
	return types.LauncherInfo{
		ID:           b.ID,
		Version:      b.Version,
		Filename:     b.Filename,
		IsCurrent:    b.IsCurrent,
		MD5Hash:      b.MD5Hash,
		FileSize:     b.FileSize,
		ReleaseNotes: b.ReleaseNotes,
		CreatedAt:    b.CreatedAt,
	}
}
