package service

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"gorm.io/gorm"

	"github.com/yeisme/patchvault/pkg/internal/model"
	"github.com/yeisme/patchvault/pkg/internal/types"
)

func TestVersionCreateAndPromote(t *testing.T) {
	ctx := newTestContext(t)
	svc := NewVersionService(ctx)

	v1, err := svc.Create(ctx, &types.CreateVersionRequest{Version: "1.0.0.1", SetLatest: true})
	if err != nil {
		t.Fatalf("Create(1.0.0.1) error = %v", err)
	}

	if !v1.IsLatest {
		t.Error("first promoted version should be latest")
	}

	v2, err := svc.Create(ctx, &types.CreateVersionRequest{Version: "1.0.0.2", SetLatest: true})
	if err != nil {
		t.Fatalf("Create(1.0.0.2) error = %v", err)
	}

	// 任一时刻至多一条 is_latest
	var count int64
	if err := dbOf(ctx).Model(&model.GameVersion{}).Where("is_latest = ?", true).Count(&count).Error; err != nil {
		t.Fatal(err)
	}

	if count != 1 {
		t.Errorf("is_latest rows = %d, want 1", count)
	}

	latest, err := svc.Latest(ctx)
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}

	if latest.ID != v2.ID {
		t.Errorf("latest = %s, want 1.0.0.2", latest.Version)
	}
}

func TestVersionPromoteConcurrentSingleLatest(t *testing.T) {
	ctx := newTestContext(t)
	svc := NewVersionService(ctx)

	ids := make([]uint, 0, 4)

	for _, v := range []string{"1.0.0.1", "1.0.0.2", "1.0.0.3", "1.0.0.4"} {
		info, err := svc.Create(ctx, &types.CreateVersionRequest{Version: v})
		if err != nil {
			t.Fatal(err)
		}

		ids = append(ids, info.ID)
	}

	var wg sync.WaitGroup

	errs := make([]error, len(ids))

	for i, id := range ids {
		wg.Add(1)

		go func(i int, id uint) {
			defer wg.Done()
			errs[i] = svc.Promote(ctx, id)
		}(i, id)
	}

	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("Promote()[%d] error = %v", i, err)
		}
	}

	var count int64
	if err := dbOf(ctx).Model(&model.GameVersion{}).Where("is_latest = ?", true).Count(&count).Error; err != nil {
		t.Fatal(err)
	}

	if count != 1 {
		t.Errorf("is_latest rows after concurrent promote = %d, want 1", count)
	}
}

func TestVersionSingleLatestIndexBackstop(t *testing.T) {
	ctx := newTestContext(t)
	svc := NewVersionService(ctx)

	if _, err := svc.Create(ctx, &types.CreateVersionRequest{Version: "1.0.0.1", SetLatest: true}); err != nil {
		t.Fatal(err)
	}

	other, err := svc.Create(ctx, &types.CreateVersionRequest{Version: "1.0.0.2"})
	if err != nil {
		t.Fatal(err)
	}

	// 绕过业务层直接把第二行也标成最新，条件唯一索引必须拒绝
	err = dbOf(ctx).Exec("UPDATE game_versions SET is_latest = ? WHERE id = ?", true, other.ID).Error
	if !isUniqueViolation(err) {
		t.Errorf("second is_latest row error = %v, want unique violation", err)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"gorm sentinel", gorm.ErrDuplicatedKey, true},
		{"sqlite", errors.New("UNIQUE constraint failed: devices.hwid"), true},
		{"mysql", errors.New("Error 1062: Duplicate entry 'x' for key 'idx'"), true},
		{"unrelated", errors.New("connection refused"), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := isUniqueViolation(tc.err); got != tc.want {
				t.Errorf("isUniqueViolation(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}

func TestVersionCreateDuplicate(t *testing.T) {
	ctx := newTestContext(t)
	svc := NewVersionService(ctx)

	if _, err := svc.Create(ctx, &types.CreateVersionRequest{Version: "1.0.0.1"}); err != nil {
		t.Fatal(err)
	}

	_, err := svc.Create(ctx, &types.CreateVersionRequest{Version: "1.0.0.1"})
	if !errors.Is(err, ErrDuplicateVersion) {
		t.Errorf("duplicate create error = %v, want ErrDuplicateVersion", err)
	}
}

func TestVersionCreateInvalid(t *testing.T) {
	ctx := newTestContext(t)
	svc := NewVersionService(ctx)

	for _, v := range []string{"", "abc", "1.2.3.4.5", "1..2"} {
		if _, err := svc.Create(ctx, &types.CreateVersionRequest{Version: v}); err == nil {
			t.Errorf("Create(%q) should fail", v)
		}
	}
}

func TestVersionDeleteLatestRefused(t *testing.T) {
	ctx := newTestContext(t)
	svc := NewVersionService(ctx)

	v, err := svc.Create(ctx, &types.CreateVersionRequest{Version: "1.0.0.1", SetLatest: true})
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.Delete(ctx, v.ID); !errors.Is(err, ErrCannotDeleteLatest) {
		t.Errorf("delete latest error = %v, want ErrCannotDeleteLatest", err)
	}
}

func TestVersionDeleteCascades(t *testing.T) {
	ctx := newTestContext(t)
	svc := NewVersionService(ctx)

	old, err := svc.Create(ctx, &types.CreateVersionRequest{Version: "1.0.0.1", SetLatest: true})
	if err != nil {
		t.Fatal(err)
	}

	fs := NewFileService(ctx)
	if _, err := fs.Upload(ctx, "1.0.0.1", "data.pak", "data/data.pak", strings.NewReader("bytes")); err != nil {
		t.Fatalf("Upload() error = %v", err)
	}

	ps := NewPackageService(ctx)
	if _, err := ps.Upload(ctx, "1.0.0.1", "", strings.NewReader("zip")); err != nil {
		t.Fatalf("package Upload() error = %v", err)
	}

	v2, err := svc.Create(ctx, &types.CreateVersionRequest{Version: "1.0.0.2", SetLatest: true})
	if err != nil {
		t.Fatal(err)
	}

	_ = v2

	if err := svc.Delete(ctx, old.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	var files int64
	if err := dbOf(ctx).Model(&model.GameFile{}).Where("version_id = ?", old.ID).Count(&files).Error; err != nil {
		t.Fatal(err)
	}

	var pkgs int64
	if err := dbOf(ctx).Model(&model.UpdatePackage{}).Where("version_id = ?", old.ID).Count(&pkgs).Error; err != nil {
		t.Fatal(err)
	}

	if files != 0 || pkgs != 0 {
		t.Errorf("cascade left files=%d pkgs=%d, want 0/0", files, pkgs)
	}

	if _, err := svc.Latest(ctx); err != nil {
		t.Errorf("latest version should survive cascade delete: %v", err)
	}
}

func TestVersionList(t *testing.T) {
	ctx := newTestContext(t)
	svc := NewVersionService(ctx)

	for _, v := range []string{"1.0.0.2", "1.0.0.10", "1.0.0.1"} {
		if _, err := svc.Create(ctx, &types.CreateVersionRequest{Version: v}); err != nil {
			t.Fatal(err)
		}
	}

	resp, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	got := make([]string, 0, len(resp.Versions))
	for _, v := range resp.Versions {
		got = append(got, v.Version)
	}

	want := []string{"1.0.0.10", "1.0.0.2", "1.0.0.1"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("List() order = %v, want %v", got, want)
		}
	}
}
