package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/yeisme/patchvault/pkg/internal/types"
)

func TestGameManifestFallback(t *testing.T) {
	ctx := newTestContext(t)
	svc := NewManifestService(ctx)

	m, err := svc.GameManifest(ctx)
	if !errors.Is(err, ErrVersionNotFound) {
		t.Fatalf("GameManifest() error = %v, want ErrVersionNotFound", err)
	}

	if m.LatestVersion != FallbackVersion {
		t.Errorf("fallback latest_version = %s, want %s", m.LatestVersion, FallbackVersion)
	}

	if m.Updates == nil || m.FileHashes == nil {
		t.Error("fallback manifest must serialize empty arrays, not null")
	}
}

func TestGameManifestAssembly(t *testing.T) {
	ctx := newTestContext(t)

	vs := NewVersionService(ctx)
	ps := NewPackageService(ctx)
	fs := NewFileService(ctx)

	// 乱序登记三个版本，各带更新包
	for _, v := range []string{"1.0.0.2", "1.0.0.10", "1.0.0.1"} {
		if _, err := vs.Create(ctx, &types.CreateVersionRequest{Version: v}); err != nil {
			t.Fatal(err)
		}

		if _, err := ps.Upload(ctx, v, "", strings.NewReader("zip-"+v)); err != nil {
			t.Fatal(err)
		}
	}

	latest, err := vs.GetByVersion(ctx, "1.0.0.10")
	if err != nil {
		t.Fatal(err)
	}

	if err := vs.Promote(ctx, latest.ID); err != nil {
		t.Fatal(err)
	}

	if _, err := fs.Upload(ctx, "1.0.0.10", "client.exe", "client.exe", strings.NewReader("ABC")); err != nil {
		t.Fatal(err)
	}

	m, err := NewManifestService(ctx).GameManifest(ctx)
	if err != nil {
		t.Fatalf("GameManifest() error = %v", err)
	}

	if m.LatestVersion != "1.0.0.10" {
		t.Errorf("latest_version = %s, want 1.0.0.10", m.LatestVersion)
	}

	// 更新包按版本号升序，数值比较而非字典序
	want := []string{"update_1.0.0.1.zip", "update_1.0.0.2.zip", "update_1.0.0.10.zip"}
	if len(m.Updates) != len(want) {
		t.Fatalf("updates = %v, want %v", m.Updates, want)
	}

	for i := range want {
		if m.Updates[i] != want[i] {
			t.Fatalf("updates = %v, want %v", m.Updates, want)
		}
	}

	if len(m.FileHashes) != 1 {
		t.Fatalf("file_hashes = %v, want 1 entry", m.FileHashes)
	}

	entry := m.FileHashes[0]
	if entry.FileName != "client.exe" || entry.MD5Hash != "902fbdd2b1df0c4f70b4a5d23525e932" {
		t.Errorf("file_hashes[0] = %+v", entry)
	}
}

func TestLauncherManifestFallback(t *testing.T) {
	ctx := newTestContext(t)
	svc := NewManifestService(ctx)

	m, err := svc.LauncherManifest(ctx)
	if !errors.Is(err, ErrLauncherNotFound) {
		t.Fatalf("LauncherManifest() error = %v, want ErrLauncherNotFound", err)
	}

	if m.Version != FallbackVersion || m.FileName != "LC.exe" {
		t.Errorf("fallback = %+v, want {1.0.0.0 LC.exe}", m)
	}
}

func TestLauncherManifestCurrent(t *testing.T) {
	ctx := newTestContext(t)

	ls := NewLauncherService(ctx)
	if _, err := ls.Upload(ctx, &types.CreateLauncherRequest{Version: "2.1.0.0", SetCurrent: true},
		"LC.exe", strings.NewReader("launcher bytes")); err != nil {
		t.Fatalf("launcher Upload() error = %v", err)
	}

	m, err := NewManifestService(ctx).LauncherManifest(ctx)
	if err != nil {
		t.Fatalf("LauncherManifest() error = %v", err)
	}

	if m.Version != "2.1.0.0" || m.FileName != "LC.exe" {
		t.Errorf("manifest = %+v", m)
	}
}
