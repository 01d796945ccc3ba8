// Package blob 处理制品字节的存储操作，支持本地文件系统与 S3 两种后端.
// 后端通过工厂注册，按配置选择；对象键形如 "<area>/<filename>".
package blob

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/yeisme/patchvault/pkg/configs"
)

// 存储区域常量，对应不同类别的制品.
const (
	AreaFiles    = "files"    // 游戏单文件
	AreaUpdates  = "updates"  // 更新包
	AreaLauncher = "launcher" // 启动器构建
	AreaStatic   = "static"   // 横幅等静态下发内容
)

// Store 抽象制品存储后端.
type Store interface {
	// Put 写入对象并返回写入的字节数，同键覆盖.
	Put(ctx context.Context, key string, r io.Reader, size int64) (int64, error)
	// Get 打开对象读取流，调用方负责 Close.
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	// Stat 返回对象大小，不存在时返回错误.
	Stat(ctx context.Context, key string) (int64, error)
	// Remove 删除对象，不存在时视为成功.
	Remove(ctx context.Context, key string) error
	// Close 释放后端资源.
	Close() error
}

// Factory 定义创建 Store 的工厂函数.
type Factory func(ctx context.Context, cfg *configs.BlobConfig) (Store, error)

var factories = map[configs.BlobType]Factory{}

// RegisterFactory 注册指定后端类型的工厂.
func RegisterFactory(t configs.BlobType, f Factory) {
	factories[t] = f
}

// New 按配置创建制品存储后端.
func New(ctx context.Context, cfg *configs.BlobConfig) (Store, error) {
	factory, ok := factories[cfg.Type]
	if !ok {
		return nil, fmt.Errorf("unsupported blob backend: %s", cfg.Type)
	}

	return factory(ctx, cfg)
}

// Key 拼接区域与文件名为对象键，并拒绝路径穿越.
func Key(area, filename string) (string, error) {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if name == "" || name == "." || name == ".." {
		return "", fmt.Errorf("invalid blob filename: %q", filename)
	}

	return area + "/" + name, nil
}
