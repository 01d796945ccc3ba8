package service

import (
	"errors"
	"sync"
	"testing"

	"github.com/yeisme/patchvault/pkg/internal/model"
	"github.com/yeisme/patchvault/pkg/internal/types"
)

func TestDeviceCheckRegistersOnce(t *testing.T) {
	ctx := newTestContext(t)
	svc := NewDeviceService(ctx)

	req := &types.DeviceCheckRequest{HWID: "hw-1", Serial: "sn-1", MAC: "aa:bb:cc"}

	first, err := svc.Check(ctx, req, "10.0.0.1")
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}

	if first.Status != types.DeviceStatusRegistered || !first.NewlyRegistered {
		t.Errorf("first check = %+v, want status=registered newly_registered=true", first)
	}

	if first.IsBanned || first.DeviceID == "" {
		t.Errorf("first check = %+v, want is_banned=false with device_id", first)
	}

	second, err := svc.Check(ctx, req, "10.0.0.1")
	if err != nil {
		t.Fatal(err)
	}

	if second.Status != types.DeviceStatusOK || second.NewlyRegistered {
		t.Errorf("repeat check = %+v, want status=ok newly_registered=false", second)
	}

	if second.DeviceID != first.DeviceID {
		t.Errorf("repeat check device_id = %s, want %s", second.DeviceID, first.DeviceID)
	}

	if second.FirstSeen == nil {
		t.Error("repeat check should carry first_seen")
	}

	var dev model.Device
	if err := dbOf(ctx).First(&dev).Error; err != nil {
		t.Fatal(err)
	}

	if dev.Reason != "auto-registered" {
		t.Errorf("registered reason = %q, want auto-registered", dev.Reason)
	}

	var count int64
	if err := dbOf(ctx).Model(&model.Device{}).Count(&count).Error; err != nil {
		t.Fatal(err)
	}

	if count != 1 {
		t.Errorf("device rows = %d, want 1", count)
	}
}

func TestDeviceCheckConcurrentFirstContact(t *testing.T) {
	ctx := newTestContext(t)
	svc := NewDeviceService(ctx)

	req := &types.DeviceCheckRequest{HWID: "hw-race", Serial: "sn-race", MAC: "dd:ee:ff"}

	const n = 8

	var wg sync.WaitGroup

	results := make([]*types.DeviceCheckResponse, n)
	errs := make([]error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)

		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = svc.Check(ctx, req, "10.0.0.9")
		}(i)
	}

	wg.Wait()

	registered := 0

	for i := 0; i < n; i++ {
		if errs[i] != nil {
			t.Fatalf("Check()[%d] error = %v", i, errs[i])
		}

		if results[i].DeviceID != results[0].DeviceID {
			t.Errorf("device_id[%d] = %s, want %s", i, results[i].DeviceID, results[0].DeviceID)
		}

		if results[i].NewlyRegistered {
			registered++
		}
	}

	// 同一组标识首次并发接触只允许一方完成注册
	if registered != 1 {
		t.Errorf("newly_registered responses = %d, want 1", registered)
	}

	var count int64
	if err := dbOf(ctx).Model(&model.Device{}).Count(&count).Error; err != nil {
		t.Fatal(err)
	}

	if count != 1 {
		t.Errorf("device rows = %d, want 1", count)
	}
}

func TestDeviceCheckPartialIdentifiers(t *testing.T) {
	ctx := newTestContext(t)
	svc := NewDeviceService(ctx)

	full := &types.DeviceCheckRequest{HWID: "hw-1", Serial: "sn-1", MAC: "aa:bb:cc"}

	reg, err := svc.Check(ctx, full, "")
	if err != nil {
		t.Fatal(err)
	}

	// 只带一个标识也要命中同一台设备
	partial, err := svc.Check(ctx, &types.DeviceCheckRequest{HWID: "hw-1"}, "")
	if err != nil {
		t.Fatal(err)
	}

	if partial.DeviceID != reg.DeviceID {
		t.Errorf("partial match device_id = %s, want %s", partial.DeviceID, reg.DeviceID)
	}
}

func TestDeviceCheckMissingIdentifier(t *testing.T) {
	ctx := newTestContext(t)
	svc := NewDeviceService(ctx)

	_, err := svc.Check(ctx, &types.DeviceCheckRequest{}, "")
	if !errors.Is(err, ErrMissingIdentifier) {
		t.Errorf("Check() error = %v, want ErrMissingIdentifier", err)
	}
}

func TestDeviceBanUnban(t *testing.T) {
	ctx := newTestContext(t)
	svc := NewDeviceService(ctx)

	req := &types.DeviceCheckRequest{HWID: "hw-banned"}
	if _, err := svc.Check(ctx, req, ""); err != nil {
		t.Fatal(err)
	}

	var dev model.Device
	if err := dbOf(ctx).First(&dev).Error; err != nil {
		t.Fatal(err)
	}

	if err := svc.Ban(ctx, dev.ID, "cheating"); err != nil {
		t.Fatalf("Ban() error = %v", err)
	}

	resp, err := svc.Check(ctx, req, "")
	if err != nil {
		t.Fatal(err)
	}

	if resp.Status != types.DeviceStatusBanned || !resp.IsBanned || resp.Message != "cheating" {
		t.Errorf("banned check = %+v, want status=banned message=cheating", resp)
	}

	if resp.BannedSince == nil {
		t.Error("banned check should carry banned_since")
	}

	if err := svc.Unban(ctx, dev.ID); err != nil {
		t.Fatalf("Unban() error = %v", err)
	}

	resp, err = svc.Check(ctx, req, "")
	if err != nil {
		t.Fatal(err)
	}

	if resp.Status != types.DeviceStatusOK || resp.IsBanned || resp.Message != "" {
		t.Errorf("unbanned check = %+v, want status=ok", resp)
	}
}

func TestDeviceBanMissing(t *testing.T) {
	ctx := newTestContext(t)
	svc := NewDeviceService(ctx)

	if err := svc.Ban(ctx, 42, "x"); !errors.Is(err, ErrDeviceNotFound) {
		t.Errorf("Ban(missing) error = %v, want ErrDeviceNotFound", err)
	}
}
