package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/yeisme/patchvault/pkg/configs"
	"github.com/yeisme/patchvault/pkg/internal/model"
	"github.com/yeisme/patchvault/pkg/internal/types"
	versionpkg "github.com/yeisme/patchvault/pkg/version"
)

// FallbackVersion 没有任何已发布版本时下发的占位版本号.
const FallbackVersion = "1.0.0.0"

// ManifestService 组装客户端轮询的更新清单，每次请求现查现拼，不走缓存.
type ManifestService struct{ base }

func NewManifestService(c context.Context) *ManifestService {
	return &ManifestService{newBase(c)}
}

// GameManifest 组装 /api/update.json。没有最新版本时返回占位清单与
// ErrVersionNotFound，handler 据此回 404 但仍携带可解析的 JSON.
func (s *ManifestService) GameManifest(ctx context.Context) (*types.GameManifest, error) {
	fallback := &types.GameManifest{
		LatestVersion: FallbackVersion,
		Updates:       []string{},
		FileHashes:    []model.ManifestEntry{},
	}

	vs := NewVersionService(ctx)

	latest, err := vs.Latest(ctx)
	if err != nil {
		if errors.Is(err, ErrVersionNotFound) {
			return fallback, err
		}

		return nil, err
	}

	dbx := s.dbc.GetDB().WithContext(ctx)

	var pkgs []model.UpdatePackage
	if err := dbx.Find(&pkgs).Error; err != nil {
		return nil, fmt.Errorf("list packages: %w", err)
	}

	versionByID, err := s.versionIndex(ctx)
	if err != nil {
		return nil, err
	}

	type pkgEntry struct {
		version  string
		filename string
	}

	entries := make([]pkgEntry, 0, len(pkgs))
	for i := range pkgs {
		entries = append(entries, pkgEntry{
			version:  versionByID[pkgs[i].VersionID],
			filename: pkgs[i].Filename,
		})
	}

	// 更新包按版本号升序，客户端按序依次应用
	sort.Slice(entries, func(i, j int) bool {
		return versionpkg.Less(entries[i].version, entries[j].version)
	})

	updates := make([]string, 0, len(entries))
	for _, e := range entries {
		updates = append(updates, e.filename)
	}

	var files []model.GameFile
	if err := dbx.Where("version_id = ?", latest.ID).Order("filename").Find(&files).Error; err != nil {
		return nil, fmt.Errorf("list files of %s: %w", latest.Version, err)
	}

	hashes := make([]model.ManifestEntry, 0, len(files))
	for i := range files {
		hashes = append(hashes, files[i].ToManifestEntry())
	}

	return &types.GameManifest{
		LatestVersion: latest.Version,
		Updates:       updates,
		FileHashes:    hashes,
	}, nil
}

// LauncherManifest 组装 /api/launcher_update.json。没有当前构建时返回
// 占位清单与 ErrLauncherNotFound.
func (s *ManifestService) LauncherManifest(ctx context.Context) (*types.LauncherManifest, error) {
	ls := NewLauncherService(ctx)

	current, err := ls.Current(ctx)
	if err != nil {
		if errors.Is(err, ErrLauncherNotFound) {
			return &types.LauncherManifest{
				Version:  FallbackVersion,
				FileName: configs.DefaultLauncherName,
			}, err
		}

		return nil, err
	}

	return &types.LauncherManifest{
		Version:  current.Version,
		FileName: current.Filename,
	}, nil
}
