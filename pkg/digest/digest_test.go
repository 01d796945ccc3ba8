package digest_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/yeisme/patchvault/pkg/digest"
)

// TestStream 测试已知输入的摘要与字节数.
func TestStream(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		size  int64
	}{
		{"empty", "", "d41d8cd98f00b204e9800998ecf8427e", 0},
		{"abc", "ABC", "902fbdd2b1df0c4f70b4a5d23525e932", 3},
		{"hello", "hello world", "5eb63bbbe01eeed093cb22bb8f5acdc3", 11},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, n, err := digest.Stream(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("Stream() error = %v", err)
			}

			if got != tt.want {
				t.Errorf("Stream() digest = %q, want %q", got, tt.want)
			}

			if n != tt.size {
				t.Errorf("Stream() size = %d, want %d", n, tt.size)
			}
		})
	}
}

// TestStreamDistinct 不同输入必须产生不同摘要.
func TestStreamDistinct(t *testing.T) {
	a, _, err := digest.Stream(strings.NewReader("payload-a"))
	if err != nil {
		t.Fatal(err)
	}

	b, _, err := digest.Stream(strings.NewReader("payload-b"))
	if err != nil {
		t.Fatal(err)
	}

	if a == b {
		t.Errorf("distinct inputs produced identical digest %q", a)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("read failed") }

// TestStreamReadError 读取出错时返回错误，不产生部分摘要.
func TestStreamReadError(t *testing.T) {
	got, n, err := digest.Stream(failingReader{})
	if err == nil {
		t.Fatal("expected error from failing reader, got nil")
	}

	if got != "" || n != 0 {
		t.Errorf("expected empty result on error, got digest=%q size=%d", got, n)
	}
}

// TestValid 测试摘要格式校验.
func TestValid(t *testing.T) {
	if !digest.Valid("902fbdd2b1df0c4f70b4a5d23525e932") {
		t.Error("expected valid digest to pass")
	}

	for _, s := range []string{"", "abc", strings.Repeat("g", 32), strings.Repeat("a", 31)} {
		if digest.Valid(s) {
			t.Errorf("expected %q to be invalid", s)
		}
	}
}

// TestHexMatchesStream TeeReader 风格的哈希器结果必须与 Stream 一致.
func TestHexMatchesStream(t *testing.T) {
	const payload = "update_1.2.3.4.zip content"

	want, _, err := digest.Stream(strings.NewReader(payload))
	if err != nil {
		t.Fatal(err)
	}

	h := digest.New()
	if _, err := h.Write([]byte(payload)); err != nil {
		t.Fatal(err)
	}

	if got := digest.Hex(h); got != want {
		t.Errorf("Hex() = %q, want %q", got, want)
	}
}
