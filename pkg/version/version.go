// Package version 提供四段式版本号的解析与比较.
// 版本号按 '.' 拆分，不足四段补零，逐段数值比较；非数字段按 0 处理.
package version

import (
	"strconv"
	"strings"
)

// components 版本号固定比较段数.
const components = 4

// parse 将版本字符串拆为定长数值切片.
func parse(v string) [components]int {
	var out [components]int

	parts := strings.Split(strings.TrimSpace(v), ".")
	for i := 0; i < components && i < len(parts); i++ {
		n, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil || n < 0 {
			n = 0
		}

		out[i] = n
	}

	return out
}

// Compare 比较两个版本号，返回 -1、0、1.
func Compare(a, b string) int {
	va, vb := parse(a), parse(b)

	for i := range components {
		switch {
		case va[i] < vb[i]:
			return -1
		case va[i] > vb[i]:
			return 1
		}
	}

	return 0
}

// Less 判断 a 是否严格小于 b.
func Less(a, b string) bool {
	return Compare(a, b) < 0
}

// IsValid 校验版本字符串是否为 1 到 4 段的点分数字.
func IsValid(v string) bool {
	v = strings.TrimSpace(v)
	if v == "" {
		return false
	}

	parts := strings.Split(v, ".")
	if len(parts) > components {
		return false
	}

	for _, p := range parts {
		if p == "" {
			return false
		}

		if _, err := strconv.Atoi(p); err != nil {
			return false
		}
	}

	return true
}
