package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/yeisme/patchvault/pkg/configs"
	nlog "github.com/yeisme/patchvault/pkg/log"
)

// localStore 本地文件系统后端，写入走临时文件 + rename，读侧不会看到半截文件.
type localStore struct {
	root string
}

// init 注册本地后端工厂.
func init() {
	RegisterFactory(configs.BlobTypeLocal, newLocalStore)
}

func newLocalStore(_ context.Context, cfg *configs.BlobConfig) (Store, error) {
	root := cfg.Local.Root
	if root == "" {
		return nil, fmt.Errorf("local blob root not configured")
	}

	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create blob root: %w", err)
	}

	nlog.Logger().Info().Str("root", root).Msg("local blob store ready")

	return &localStore{root: root}, nil
}

// NewLocal 基于指定根目录创建本地后端，测试与 CLI 场景直接使用.
func NewLocal(root string) (Store, error) {
	return newLocalStore(context.Background(), &configs.BlobConfig{
		Type:  configs.BlobTypeLocal,
		Local: configs.LocalBlobConfig{Root: root},
	})
}

func (s *localStore) pathFor(key string) string {
	return filepath.Join(s.root, filepath.FromSlash(key))
}

func (s *localStore) Put(_ context.Context, key string, r io.Reader, _ int64) (int64, error) {
	dst := s.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return 0, fmt.Errorf("create blob dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".upload-*")
	if err != nil {
		return 0, fmt.Errorf("create temp blob: %w", err)
	}

	n, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		os.Remove(tmp.Name())

		return 0, fmt.Errorf("write blob %s: %w", key, err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())

		return 0, fmt.Errorf("close temp blob: %w", err)
	}

	if err := os.Rename(tmp.Name(), dst); err != nil {
		os.Remove(tmp.Name())

		return 0, fmt.Errorf("commit blob %s: %w", key, err)
	}

	return n, nil
}

func (s *localStore) Get(_ context.Context, key string) (io.ReadCloser, error) {
	f, err := os.Open(s.pathFor(key))
	if err != nil {
		return nil, fmt.Errorf("open blob %s: %w", key, err)
	}

	return f, nil
}

func (s *localStore) Stat(_ context.Context, key string) (int64, error) {
	info, err := os.Stat(s.pathFor(key))
	if err != nil {
		return 0, fmt.Errorf("stat blob %s: %w", key, err)
	}

	return info.Size(), nil
}

func (s *localStore) Remove(_ context.Context, key string) error {
	err := os.Remove(s.pathFor(key))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove blob %s: %w", key, err)
	}

	return nil
}

func (s *localStore) Close() error { return nil }
