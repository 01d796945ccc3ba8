package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yeisme/patchvault/pkg/digest"
	"github.com/yeisme/patchvault/pkg/internal/model"
	"github.com/yeisme/patchvault/pkg/internal/storage/blob"
	"github.com/yeisme/patchvault/pkg/internal/types"
	nlog "github.com/yeisme/patchvault/pkg/log"
	"github.com/yeisme/patchvault/pkg/queue"
)

// FileService 版本文件清单.
type FileService struct{ base }

func NewFileService(c context.Context) *FileService {
	return &FileService{newBase(c)}
}

// batchDeleteConcurrency 批量删除的并发上限.
const batchDeleteConcurrency = 8

// Upload 将文件写入制品存储并登记到指定版本的清单，
// 摘要在上传过程中由 TeeReader 计算，(filename, version_id) 冲突时替换旧记录.
func (s *FileService) Upload(ctx context.Context, version string, filename, relativePath string,
	r io.Reader,
) (*types.FileUploadResponse, error) {
	vs := NewVersionService(ctx)

	gv, err := vs.GetByVersion(ctx, strings.TrimSpace(version))
	if err != nil {
		return nil, err
	}

	if relativePath == "" {
		relativePath = filename
	}

	relativePath = path.Clean(strings.ReplaceAll(relativePath, "\\", "/"))

	key, err := blob.Key(blob.AreaFiles, fmt.Sprintf("%s_%s", gv.Version, filename))
	if err != nil {
		return nil, err
	}

	// 边写边算摘要，避免二次遍历
	h := digest.New()

	size, err := s.blob.Put(ctx, key, io.TeeReader(r, h), -1)
	if err != nil {
		return nil, fmt.Errorf("store file %s: %w", filename, err)
	}

	sum := digest.Hex(h)

	dbx := s.dbc.GetDB().WithContext(ctx)

	var prev model.GameFile

	replaced := false
	if err := dbx.Where("filename = ? AND version_id = ?", filename, gv.ID).First(&prev).Error; err == nil {
		replaced = true
	}

	row := model.GameFile{
		Filename:     filename,
		VersionID:    gv.ID,
		RelativePath: relativePath,
		MD5Hash:      sum,
		FileSize:     size,
		BlobKey:      key,
	}

	// (filename, version_id) 冲突时替换
	if err := dbx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "filename"}, {Name: "version_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"relative_path", "md5_hash", "file_size", "blob_key", "updated_at",
		}),
	}).Create(&row).Error; err != nil {
		return nil, fmt.Errorf("upsert file %s: %w", filename, err)
	}

	// 旧字节与新键不同则尽力清理
	if replaced && prev.BlobKey != "" && prev.BlobKey != key {
		s.removeBlobs(ctx, []string{prev.BlobKey})
	}

	if s.mqc != nil {
		if err := queue.PublishFileStored(mqPublisher{s.mqc}, queue.FileStoredPayload{
			Artifact: queue.ArtifactRef{
				Key:      key,
				FileName: filename,
				Size:     size,
				Digest:   sum,
			},
			Version:      gv.Version,
			RelativePath: relativePath,
		}); err != nil {
			nlog.Logger().Warn().Err(err).Str("file", filename).Msg("publish file stored event failed")
		}
	}

	var saved model.GameFile
	if err := dbx.Where("filename = ? AND version_id = ?", filename, gv.ID).First(&saved).Error; err != nil {
		return nil, fmt.Errorf("reload file %s: %w", filename, err)
	}

	return &types.FileUploadResponse{
		ID:           saved.ID,
		Filename:     saved.Filename,
		RelativePath: saved.RelativePath,
		MD5Hash:      saved.MD5Hash,
		FileSize:     saved.FileSize,
		Version:      gv.Version,
		Replaced:     replaced,
	}, nil
}

// List 列出指定版本的文件清单，按创建时间降序.
func (s *FileService) List(ctx context.Context, version string) (*types.ListFilesResponse, error) {
	vs := NewVersionService(ctx)

	gv, err := vs.GetByVersion(ctx, strings.TrimSpace(version))
	if err != nil {
		return nil, err
	}

	dbx := s.dbc.GetDB().WithContext(ctx)

	var files []model.GameFile
	if err := dbx.Where("version_id = ?", gv.ID).
		Order("created_at DESC, id DESC").Find(&files).Error; err != nil {
		return nil, fmt.Errorf("list files of %s: %w", version, err)
	}

	out := make([]types.FileInfo, 0, len(files))
	for i := range files {
		f := &files[i]
		out = append(out, types.FileInfo{
			ID:           f.ID,
			Filename:     f.Filename,
			RelativePath: f.RelativePath,
			MD5Hash:      f.MD5Hash,
			FileSize:     f.FileSize,
			VersionID:    f.VersionID,
			UpdatedAt:    f.UpdatedAt,
		})
	}

	return &types.ListFilesResponse{Files: out, Total: len(out)}, nil
}

// Delete 删除单个文件记录及其制品字节.
func (s *FileService) Delete(ctx context.Context, id uint) error {
	dbx := s.dbc.GetDB().WithContext(ctx)

	var f model.GameFile
	if err := dbx.First(&f, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFileNotFound
		}

		return fmt.Errorf("load file %d: %w", id, err)
	}

	if err := dbx.Delete(&f).Error; err != nil {
		return fmt.Errorf("delete file %d: %w", id, err)
	}

	if f.BlobKey != "" {
		s.removeBlobs(ctx, []string{f.BlobKey})
	}

	return nil
}

// BatchDelete 批量删除文件，单项失败不影响其余项，逐项收集错误.
func (s *FileService) BatchDelete(ctx context.Context, req *types.BatchDeleteFilesRequest) (*types.BatchDeleteFilesResponse, error) {
	var (
		mu   sync.Mutex
		resp types.BatchDeleteFilesResponse
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(batchDeleteConcurrency)

	for _, id := range req.IDs {
		g.Go(func() error {
			err := s.Delete(gctx, id)

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				resp.Failed = append(resp.Failed, types.BatchDeleteFailure{ID: id, Error: err.Error()})
			} else {
				resp.Deleted = append(resp.Deleted, id)
			}

			// 错误已逐项收集，不中断其他删除
			return nil
		})
	}

	_ = g.Wait()

	if resp.Deleted == nil {
		resp.Deleted = []uint{}
	}

	if resp.Failed == nil {
		resp.Failed = []types.BatchDeleteFailure{}
	}

	return &resp, nil
}

// Open 按文件名打开最新版本清单中的制品，供下载端点流式输出.
func (s *FileService) Open(ctx context.Context, filename string) (io.ReadCloser, *model.GameFile, error) {
	vs := NewVersionService(ctx)

	gv, err := vs.Latest(ctx)
	if err != nil {
		return nil, nil, err
	}

	dbx := s.dbc.GetDB().WithContext(ctx)

	var f model.GameFile
	if err := dbx.Where("filename = ? AND version_id = ?", filename, gv.ID).First(&f).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrFileNotFound
		}

		return nil, nil, fmt.Errorf("load file %s: %w", filename, err)
	}

	rc, err := s.blob.Get(ctx, f.BlobKey)
	if err != nil {
		return nil, &f, fmt.Errorf("%w: %s", ErrFileNotFound, filename)
	}

	return rc, &f, nil
}
