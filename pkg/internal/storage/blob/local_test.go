package blob_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/yeisme/patchvault/pkg/internal/storage/blob"
)

// TestLocalPutGetRemove 测试本地后端的写入、读取、删除闭环.
func TestLocalPutGetRemove(t *testing.T) {
	store, err := blob.NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocal() error = %v", err)
	}
	defer store.Close()

	ctx := context.Background()

	key, err := blob.Key(blob.AreaUpdates, "update_1.0.0.1.zip")
	if err != nil {
		t.Fatal(err)
	}

	const payload = "zip bytes"

	n, err := store.Put(ctx, key, strings.NewReader(payload), int64(len(payload)))
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	if n != int64(len(payload)) {
		t.Errorf("Put() wrote %d bytes, want %d", n, len(payload))
	}

	if size, err := store.Stat(ctx, key); err != nil || size != int64(len(payload)) {
		t.Errorf("Stat() = (%d, %v), want (%d, nil)", size, err, len(payload))
	}

	rc, err := store.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	got, err := io.ReadAll(rc)
	rc.Close()

	if err != nil || string(got) != payload {
		t.Errorf("Get() = (%q, %v), want (%q, nil)", got, err, payload)
	}

	if err := store.Remove(ctx, key); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}

	// 删除后读取必须失败，重复删除视为成功
	if _, err := store.Get(ctx, key); err == nil {
		t.Error("Get() after Remove() should fail")
	}

	if err := store.Remove(ctx, key); err != nil {
		t.Errorf("Remove() of missing key should be nil, got %v", err)
	}
}

// TestLocalPutOverwrite 同键覆盖写入.
func TestLocalPutOverwrite(t *testing.T) {
	store, err := blob.NewLocal(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	ctx := context.Background()

	key, _ := blob.Key(blob.AreaFiles, "client.exe")

	if _, err := store.Put(ctx, key, strings.NewReader("old"), 3); err != nil {
		t.Fatal(err)
	}

	if _, err := store.Put(ctx, key, strings.NewReader("newer"), 5); err != nil {
		t.Fatal(err)
	}

	rc, err := store.Get(ctx, key)
	if err != nil {
		t.Fatal(err)
	}
	defer rc.Close()

	got, _ := io.ReadAll(rc)
	if string(got) != "newer" {
		t.Errorf("overwritten blob = %q, want %q", got, "newer")
	}
}

// TestKey 对象键拼接与路径穿越拒绝.
func TestKey(t *testing.T) {
	if k, err := blob.Key(blob.AreaFiles, "data.pak"); err != nil || k != "files/data.pak" {
		t.Errorf("Key() = (%q, %v), want (files/data.pak, nil)", k, err)
	}

	// 路径部分被剥离，仅保留文件名
	if k, err := blob.Key(blob.AreaUpdates, "../../etc/passwd"); err != nil || k != "updates/passwd" {
		t.Errorf("Key() = (%q, %v), want (updates/passwd, nil)", k, err)
	}

	if _, err := blob.Key(blob.AreaFiles, ".."); err == nil {
		t.Error("Key(\"..\") should fail")
	}
}
