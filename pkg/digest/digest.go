// Package digest 提供流式 MD5 摘要计算，输出 32 位小写十六进制字符串.
// 摘要始终由服务端对字节流计算，绝不信任调用方提交的值.
package digest

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
)

const (
	// HexLength 十六进制摘要的固定长度.
	HexLength = 32

	// chunkSize 流式读取的分块大小.
	chunkSize = 32 * 1024
)

// New 返回一个 MD5 哈希器，用于 TeeReader 场景下边上传边计算.
func New() hash.Hash {
	return md5.New()
}

// Hex 返回哈希器当前状态的十六进制摘要.
func Hex(h hash.Hash) string {
	return fmt.Sprintf("%x", h.Sum(nil))
}

// Stream 单次遍历读取 r 的全部内容，返回摘要与字节数.
// 读取出错时返回错误，不产生部分摘要.
func Stream(r io.Reader) (string, int64, error) {
	h := md5.New()

	n, err := io.CopyBuffer(h, r, make([]byte, chunkSize))
	if err != nil {
		return "", 0, fmt.Errorf("hash stream: %w", err)
	}

	return hex.EncodeToString(h.Sum(nil)), n, nil
}

// Valid 校验字符串是否为合法的 32 位十六进制摘要.
func Valid(s string) bool {
	if len(s) != HexLength {
		return false
	}

	_, err := hex.DecodeString(s)

	return err == nil
}
