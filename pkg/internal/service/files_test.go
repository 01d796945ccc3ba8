package service

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/yeisme/patchvault/pkg/internal/model"
	"github.com/yeisme/patchvault/pkg/internal/types"
)

func TestFileUploadComputesDigest(t *testing.T) {
	ctx := newTestContext(t)

	vs := NewVersionService(ctx)
	if _, err := vs.Create(ctx, &types.CreateVersionRequest{Version: "1.0.0.1", SetLatest: true}); err != nil {
		t.Fatal(err)
	}

	fs := NewFileService(ctx)

	resp, err := fs.Upload(ctx, "1.0.0.1", "client.exe", "client.exe", strings.NewReader("ABC"))
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}

	// MD5("ABC")
	if resp.MD5Hash != "902fbdd2b1df0c4f70b4a5d23525e932" {
		t.Errorf("MD5Hash = %s, want 902fbdd2b1df0c4f70b4a5d23525e932", resp.MD5Hash)
	}

	if resp.FileSize != 3 {
		t.Errorf("FileSize = %d, want 3", resp.FileSize)
	}

	if resp.Replaced {
		t.Error("first upload should not report replaced")
	}
}

func TestFileUploadReplace(t *testing.T) {
	ctx := newTestContext(t)

	vs := NewVersionService(ctx)
	if _, err := vs.Create(ctx, &types.CreateVersionRequest{Version: "1.0.0.1", SetLatest: true}); err != nil {
		t.Fatal(err)
	}

	fs := NewFileService(ctx)

	first, err := fs.Upload(ctx, "1.0.0.1", "data.pak", "data/data.pak", strings.NewReader("old"))
	if err != nil {
		t.Fatal(err)
	}

	second, err := fs.Upload(ctx, "1.0.0.1", "data.pak", "data/data.pak", strings.NewReader("newer"))
	if err != nil {
		t.Fatal(err)
	}

	if !second.Replaced {
		t.Error("second upload should report replaced")
	}

	if second.ID != first.ID {
		t.Errorf("replace created new row: id %d -> %d", first.ID, second.ID)
	}

	var count int64
	if err := dbOf(ctx).Model(&model.GameFile{}).Where("filename = ?", "data.pak").Count(&count).Error; err != nil {
		t.Fatal(err)
	}

	if count != 1 {
		t.Errorf("rows for data.pak = %d, want 1", count)
	}

	if second.FileSize != 5 || second.MD5Hash == first.MD5Hash {
		t.Error("replacement should carry the new digest and size")
	}
}

func TestFileListNewestFirst(t *testing.T) {
	ctx := newTestContext(t)

	vs := NewVersionService(ctx)
	if _, err := vs.Create(ctx, &types.CreateVersionRequest{Version: "1.0.0.1", SetLatest: true}); err != nil {
		t.Fatal(err)
	}

	fs := NewFileService(ctx)

	// 字典序靠后的先传，列表必须按创建时间而不是文件名排
	for _, name := range []string{"z.pak", "a.pak", "m.pak"} {
		if _, err := fs.Upload(ctx, "1.0.0.1", name, name, strings.NewReader(name)); err != nil {
			t.Fatal(err)
		}
	}

	resp, err := fs.List(ctx, "1.0.0.1")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	got := make([]string, 0, len(resp.Files))
	for _, f := range resp.Files {
		got = append(got, f.Filename)
	}

	want := []string{"m.pak", "a.pak", "z.pak"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("List() order = %v, want %v", got, want)
		}
	}
}

func TestFileOpenStreamsLatest(t *testing.T) {
	ctx := newTestContext(t)

	vs := NewVersionService(ctx)
	if _, err := vs.Create(ctx, &types.CreateVersionRequest{Version: "1.0.0.1", SetLatest: true}); err != nil {
		t.Fatal(err)
	}

	fs := NewFileService(ctx)
	if _, err := fs.Upload(ctx, "1.0.0.1", "client.exe", "client.exe", strings.NewReader("payload")); err != nil {
		t.Fatal(err)
	}

	rc, f, err := fs.Open(ctx, "client.exe")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer rc.Close()

	got, _ := io.ReadAll(rc)
	if string(got) != "payload" {
		t.Errorf("Open() bytes = %q, want %q", got, "payload")
	}

	if f.Filename != "client.exe" {
		t.Errorf("Open() record = %s", f.Filename)
	}

	if _, _, err := fs.Open(ctx, "missing.exe"); !errors.Is(err, ErrFileNotFound) {
		t.Errorf("Open(missing) error = %v, want ErrFileNotFound", err)
	}
}

func TestFileBatchDeletePartialFailure(t *testing.T) {
	ctx := newTestContext(t)

	vs := NewVersionService(ctx)
	if _, err := vs.Create(ctx, &types.CreateVersionRequest{Version: "1.0.0.1", SetLatest: true}); err != nil {
		t.Fatal(err)
	}

	fs := NewFileService(ctx)

	a, err := fs.Upload(ctx, "1.0.0.1", "a.pak", "a.pak", strings.NewReader("a"))
	if err != nil {
		t.Fatal(err)
	}

	b, err := fs.Upload(ctx, "1.0.0.1", "b.pak", "b.pak", strings.NewReader("b"))
	if err != nil {
		t.Fatal(err)
	}

	const missingID = 9999

	resp, err := fs.BatchDelete(ctx, &types.BatchDeleteFilesRequest{IDs: []uint{a.ID, missingID, b.ID}})
	if err != nil {
		t.Fatalf("BatchDelete() error = %v", err)
	}

	if len(resp.Deleted) != 2 {
		t.Errorf("Deleted = %v, want a and b", resp.Deleted)
	}

	if len(resp.Failed) != 1 || resp.Failed[0].ID != missingID {
		t.Errorf("Failed = %v, want one entry for %d", resp.Failed, missingID)
	}

	var count int64
	if err := dbOf(ctx).Model(&model.GameFile{}).Count(&count).Error; err != nil {
		t.Fatal(err)
	}

	if count != 0 {
		t.Errorf("remaining rows = %d, want 0", count)
	}
}
