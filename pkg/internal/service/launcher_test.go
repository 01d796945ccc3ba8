package service

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/yeisme/patchvault/pkg/internal/model"
	"github.com/yeisme/patchvault/pkg/internal/types"
)

func TestLauncherPromoteSingleCurrent(t *testing.T) {
	ctx := newTestContext(t)
	svc := NewLauncherService(ctx)

	b1, err := svc.Upload(ctx, &types.CreateLauncherRequest{Version: "1.0.0.0", SetCurrent: true},
		"LC.exe", strings.NewReader("v1"))
	if err != nil {
		t.Fatal(err)
	}

	b2, err := svc.Upload(ctx, &types.CreateLauncherRequest{Version: "1.1.0.0", SetCurrent: true},
		"LC.exe", strings.NewReader("v2"))
	if err != nil {
		t.Fatal(err)
	}

	var count int64
	if err := dbOf(ctx).Model(&model.LauncherBuild{}).Where("is_current = ?", true).Count(&count).Error; err != nil {
		t.Fatal(err)
	}

	if count != 1 {
		t.Errorf("is_current rows = %d, want 1", count)
	}

	current, err := svc.Current(ctx)
	if err != nil {
		t.Fatal(err)
	}

	if current.ID != b2.ID {
		t.Errorf("current = %s, want 1.1.0.0", current.Version)
	}

	_ = b1
}

func TestLauncherPromoteConcurrentSingleCurrent(t *testing.T) {
	ctx := newTestContext(t)
	svc := NewLauncherService(ctx)

	ids := make([]uint, 0, 3)

	for _, v := range []string{"1.0.0.0", "1.1.0.0", "1.2.0.0"} {
		b, err := svc.Upload(ctx, &types.CreateLauncherRequest{Version: v},
			"LC.exe", strings.NewReader(v))
		if err != nil {
			t.Fatal(err)
		}

		ids = append(ids, b.ID)
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
	if err := dbOf(ctx).Model(&model.LauncherBuild{}).Where("is_current = ?", true).Count(&count).Error; err != nil {
		t.Fatal(err)
	}

	if count != 1 {
		t.Errorf("is_current rows after concurrent promote = %d, want 1", count)
	}
}

func TestLauncherDeleteCurrentRefused(t *testing.T) {
	ctx := newTestContext(t)
	svc := NewLauncherService(ctx)

	b, err := svc.Upload(ctx, &types.CreateLauncherRequest{Version: "1.0.0.0", SetCurrent: true},
		"LC.exe", strings.NewReader("v1"))
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.Delete(ctx, b.ID); !errors.Is(err, ErrCannotDeleteCurrent) {
		t.Errorf("delete current error = %v, want ErrCannotDeleteCurrent", err)
	}
}

func TestStatusOverview(t *testing.T) {
	ctx := newTestContext(t)

	resp, err := NewStatusService(ctx).Overview(ctx)
	if err != nil {
		t.Fatalf("Overview() error = %v", err)
	}

	if resp.Status != "online" || resp.LatestVersion != "N/A" || resp.LauncherVersion != "N/A" {
		t.Errorf("empty overview = %+v", resp)
	}

	vs := NewVersionService(ctx)
	if _, err := vs.Create(ctx, &types.CreateVersionRequest{Version: "1.0.0.5", SetLatest: true}); err != nil {
		t.Fatal(err)
	}

	resp, err = NewStatusService(ctx).Overview(ctx)
	if err != nil {
		t.Fatal(err)
	}

	if resp.LatestVersion != "1.0.0.5" {
		t.Errorf("latest_version = %s, want 1.0.0.5", resp.LatestVersion)
	}
}
