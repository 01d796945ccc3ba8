package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yeisme/patchvault/pkg/digest"
	"github.com/yeisme/patchvault/pkg/internal/model"
	"github.com/yeisme/patchvault/pkg/internal/storage/blob"
	"github.com/yeisme/patchvault/pkg/internal/types"
	nlog "github.com/yeisme/patchvault/pkg/log"
	"github.com/yeisme/patchvault/pkg/queue"
	versionpkg "github.com/yeisme/patchvault/pkg/version"
)

// PackageService 版本更新包，每个版本至多一个.
type PackageService struct{ base }

func NewPackageService(c context.Context) *PackageService {
	return &PackageService{newBase(c)}
}

// Upload 上传某版本的更新包，文件名固定为 update_<version>.zip，
// 同版本再次上传时替换旧包并清理旧字节.
func (s *PackageService) Upload(ctx context.Context, version, uploadedBy string, r io.Reader) (*types.PackageUploadResponse, error) {
	vs := NewVersionService(ctx)

	gv, err := vs.GetByVersion(ctx, strings.TrimSpace(version))
	if err != nil {
		return nil, err
	}

	filename := model.PackageFilename(gv.Version)

	key, err := blob.Key(blob.AreaUpdates, filename)
	if err != nil {
		return nil, err
	}

	h := digest.New()

	size, err := s.blob.Put(ctx, key, io.TeeReader(r, h), -1)
	if err != nil {
		return nil, fmt.Errorf("store package %s: %w", filename, err)
	}

	sum := digest.Hex(h)

	dbx := s.dbc.GetDB().WithContext(ctx)

	var prev model.UpdatePackage

	replaced := false
	if err := dbx.Where("version_id = ?", gv.ID).First(&prev).Error; err == nil {
		replaced = true
	}

	row := model.UpdatePackage{
		Filename:   filename,
		VersionID:  gv.ID,
		BlobKey:    key,
		FileSize:   size,
		MD5Hash:    sum,
		UploadedBy: uploadedBy,
	}

	// version_id 唯一，冲突即替换
	if err := dbx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "version_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"filename", "blob_key", "file_size", "md5_hash", "uploaded_by", "updated_at",
		}),
	}).Create(&row).Error; err != nil {
		return nil, fmt.Errorf("upsert package %s: %w", filename, err)
	}

	if replaced && prev.BlobKey != "" && prev.BlobKey != key {
		s.removeBlobs(ctx, []string{prev.BlobKey})
	}

	if s.mqc != nil {
		if err := queue.PublishPackageStored(mqPublisher{s.mqc}, queue.PackageStoredPayload{
			Artifact: queue.ArtifactRef{
				Key:      key,
				FileName: filename,
				Size:     size,
				Digest:   sum,
			},
			Version: gv.Version,
		}); err != nil {
			nlog.Logger().Warn().Err(err).Str("package", filename).Msg("publish package stored event failed")
		}
	}

	var saved model.UpdatePackage
	if err := dbx.Where("version_id = ?", gv.ID).First(&saved).Error; err != nil {
		return nil, fmt.Errorf("reload package %s: %w", filename, err)
	}

	return &types.PackageUploadResponse{
		PackageInfo: packageToInfo(&saved, gv.Version),
		Replaced:    replaced,
	}, nil
}

// List 列出全部更新包，按版本号升序.
func (s *PackageService) List(ctx context.Context) (*types.ListPackagesResponse, error) {
	dbx := s.dbc.GetDB().WithContext(ctx)

	var pkgs []model.UpdatePackage
	if err := dbx.Find(&pkgs).Error; err != nil {
		return nil, fmt.Errorf("list packages: %w", err)
	}

	versionByID, err := s.versionIndex(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]types.PackageInfo, 0, len(pkgs))
	for i := range pkgs {
		out = append(out, packageToInfo(&pkgs[i], versionByID[pkgs[i].VersionID]))
	}

	sort.Slice(out, func(i, j int) bool {
		return versionpkg.Less(out[i].Version, out[j].Version)
	})

	return &types.ListPackagesResponse{Packages: out, Total: len(out)}, nil
}

// Delete 删除更新包记录及其制品字节.
func (s *PackageService) Delete(ctx context.Context, id uint) error {
	dbx := s.dbc.GetDB().WithContext(ctx)

	var p model.UpdatePackage
	if err := dbx.First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPackageNotFound
		}

		return fmt.Errorf("load package %d: %w", id, err)
	}

	if err := dbx.Delete(&p).Error; err != nil {
		return fmt.Errorf("delete package %d: %w", id, err)
	}

	if p.BlobKey != "" {
		s.removeBlobs(ctx, []string{p.BlobKey})
	}

	return nil
}

// Open 按规范文件名打开更新包，供下载端点流式输出.
func (s *PackageService) Open(ctx context.Context, filename string) (io.ReadCloser, *model.UpdatePackage, error) {
	dbx := s.dbc.GetDB().WithContext(ctx)

	var p model.UpdatePackage
	if err := dbx.Where("filename = ?", filename).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrPackageNotFound
		}

		return nil, nil, fmt.Errorf("load package %s: %w", filename, err)
	}

	rc, err := s.blob.Get(ctx, p.BlobKey)
	if err != nil {
		return nil, &p, fmt.Errorf("%w: %s", ErrPackageNotFound, filename)
	}

	return rc, &p, nil
}

// versionIndex 版本 ID 到版本号的映射.
func (s *base) versionIndex(ctx context.Context) (map[uint]string, error) {
	dbx := s.dbc.GetDB().WithContext(ctx)

	var versions []model.GameVersion
	if err := dbx.Find(&versions).Error; err != nil {
		return nil, fmt.Errorf("index versions: %w", err)
	}

	out := make(map[uint]string, len(versions))
	for i := range versions {
		out[versions[i].ID] = versions[i].Version
	}

	return out, nil
}

func packageToInfo(p *model.UpdatePackage, version string) types.PackageInfo {
	return types.PackageInfo{
		ID:         p.ID,
		Filename:   p.Filename,
		Version:    version,
		VersionID:  p.VersionID,
		MD5Hash:    p.MD5Hash,
		FileSize:   p.FileSize,
		UploadedBy: p.UploadedBy,
		CreatedAt:  p.CreatedAt,
	}
}
