package version_test

import (
	"testing"

	"github.com/yeisme/patchvault/pkg/version"
)

// TestCompare 测试版本比较的数值语义.
func TestCompare(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1.0.0.0", "1.0.0.0", 0},
		{"1.0", "1.0.0.0", 0}, // 不足四段补零
		{"1.2.3.4", "1.2.3.10", -1},
		{"1.2.3.10", "1.2.3.4", 1},
		{"2.0", "1.9.9.9", 1},
		{"1.10", "1.9", 1}, // 数值比较，不是字典序
		{"1.2.x.4", "1.2.0.4", 0},  // 非数字段按 0
		{"abc", "0.0.0.0", 0},
		{"1.2.3.4.5", "1.2.3.4", 0}, // 多余段被忽略
	}

	for _, tt := range tests {
		if got := version.Compare(tt.a, tt.b); got != tt.want {
			t.Errorf("Compare(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

// TestLess 测试排序谓词.
func TestLess(t *testing.T) {
	if !version.Less("1.0.0.1", "1.0.1.0") {
		t.Error("expected 1.0.0.1 < 1.0.1.0")
	}

	if version.Less("1.0.0.0", "1.0") {
		t.Error("equal versions must not be Less")
	}
}

// TestIsValid 测试版本格式校验.
func TestIsValid(t *testing.T) {
	valid := []string{"1", "1.2", "1.2.3", "1.2.3.4", "0.0.0.0", " 1.2.3.4 "}
	for _, v := range valid {
		if !version.IsValid(v) {
			t.Errorf("expected %q to be valid", v)
		}
	}

	invalid := []string{"", "1.2.3.4.5", "1..3", "v1.2", "1.2.x", "."}
	for _, v := range invalid {
		if version.IsValid(v) {
			t.Errorf("expected %q to be invalid", v)
		}
	}
}
