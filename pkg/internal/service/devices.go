package service

import (
	"context"
	crand "crypto/rand"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid"
	"gorm.io/gorm"

	"github.com/yeisme/patchvault/pkg/internal/model"
	"github.com/yeisme/patchvault/pkg/internal/types"
	nlog "github.com/yeisme/patchvault/pkg/log"
	"github.com/yeisme/patchvault/pkg/queue"
)

// 全局单例的 ULID 熵源，单调递增保证同一毫秒内生成的 ID 排序稳定.
var (
	ulidEntropy = ulid.Monotonic(crand.Reader, 0)
	ulidMu      sync.Mutex
)

func newDeviceID(now time.Time) string {
	ulidMu.Lock()
	defer ulidMu.Unlock()

	return ulid.MustNew(ulid.Timestamp(now), ulidEntropy).String()
}

// DeviceService 设备准入控制.
type DeviceService struct{ base }

func NewDeviceService(c context.Context) *DeviceService {
	return &DeviceService{newBase(c)}
}

// Check 准入检查：按提交的全部硬件标识 AND 匹配查找，未命中则注册新设备.
// 幂等：同一组标识并发注册时由唯一组合索引兜底，冲突方重读赢家的记录.
func (s *DeviceService) Check(ctx context.Context, req *types.DeviceCheckRequest, clientIP string) (*types.DeviceCheckResponse, error) {
	hwid := strings.TrimSpace(req.HWID)
	serial := strings.TrimSpace(req.Serial)
	mac := strings.TrimSpace(req.MAC)

	if hwid == "" && serial == "" && mac == "" {
		return nil, ErrMissingIdentifier
	}

	dbx := s.dbc.GetDB().WithContext(ctx)
	now := time.Now().UTC()

	var newly bool

	dev, err := s.lookup(ctx, hwid, serial, mac)

	switch {
	case err == nil:
		// 已注册，刷新 last_seen
		if err := dbx.Model(dev).Update("last_seen", now).Error; err != nil {
			nlog.Logger().Warn().Err(err).Str("device_id", dev.DeviceID).Msg("update last_seen failed")
		}

	case errors.Is(err, gorm.ErrRecordNotFound):
		dev = &model.Device{
			DeviceID:  newDeviceID(now),
			HWID:      hwid,
			Serial:    serial,
			MAC:       mac,
			Reason:    "auto-registered",
			FirstSeen: now,
			LastSeen:  now,
		}

		if createErr := dbx.Create(dev).Error; createErr != nil {
			if !isUniqueViolation(createErr) {
				return nil, fmt.Errorf("register device: %w", createErr)
			}

			// 并发注册撞索引，重读赢家
			dev, err = s.lookup(ctx, hwid, serial, mac)
			if err != nil {
				return nil, fmt.Errorf("reload device after conflict: %w", err)
			}
		} else {
			newly = true

			if s.mqc != nil {
				if err := queue.PublishDeviceRegistered(mqPublisher{s.mqc}, queue.DeviceRegisteredPayload{
					DeviceID: dev.DeviceID,
					ClientIP: clientIP,
				}); err != nil {
					nlog.Logger().Warn().Err(err).Str("device_id", dev.DeviceID).Msg("publish device registered event failed")
				}
			}
		}

	default:
		return nil, fmt.Errorf("lookup device: %w", err)
	}

	resp := &types.DeviceCheckResponse{DeviceID: dev.DeviceID}

	switch {
	case dev.IsBanned:
		resp.Status = types.DeviceStatusBanned
		resp.IsBanned = true
		resp.BannedSince = dev.BannedAt

		resp.Message = dev.Reason
		if resp.Message == "" {
			resp.Message = "device banned"
		}

	case newly:
		resp.Status = types.DeviceStatusRegistered
		resp.NewlyRegistered = true

	default:
		firstSeen := dev.FirstSeen
		resp.Status = types.DeviceStatusOK
		resp.FirstSeen = &firstSeen
	}

	return resp, nil
}

// lookup 对提交的每个标识做 AND 匹配，未提交的标识不参与过滤.
func (s *DeviceService) lookup(ctx context.Context, hwid, serial, mac string) (*model.Device, error) {
	q := s.dbc.GetDB().WithContext(ctx).Model(&model.Device{})

	if hwid != "" {
		q = q.Where("hwid = ?", hwid)
	}

	if serial != "" {
		q = q.Where("serial = ?", serial)
	}

	if mac != "" {
		q = q.Where("mac = ?", mac)
	}

	var dev model.Device
	err := q.First(&dev).Error

	return &dev, err
}

// Ban 封禁设备并记录原因与时间.
func (s *DeviceService) Ban(ctx context.Context, id uint, reason string) error {
	dbx := s.dbc.GetDB().WithContext(ctx)

	var dev model.Device
	if err := dbx.First(&dev, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDeviceNotFound
		}

		return fmt.Errorf("load device %d: %w", id, err)
	}

	now := time.Now().UTC()
	if err := dbx.Model(&dev).Updates(map[string]any{
		"is_banned": true,
		"reason":    reason,
		"banned_at": now,
	}).Error; err != nil {
		return fmt.Errorf("ban device %d: %w", id, err)
	}

	if s.mqc != nil {
		if err := queue.PublishDeviceBanned(mqPublisher{s.mqc}, queue.DeviceBannedPayload{
			DeviceID: dev.DeviceID,
			Reason:   reason,
		}); err != nil {
			nlog.Logger().Warn().Err(err).Str("device_id", dev.DeviceID).Msg("publish device banned event failed")
		}
	}

	return nil
}

// Unban 解除封禁.
func (s *DeviceService) Unban(ctx context.Context, id uint) error {
	dbx := s.dbc.GetDB().WithContext(ctx)

	var dev model.Device
	if err := dbx.First(&dev, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDeviceNotFound
		}

		return fmt.Errorf("load device %d: %w", id, err)
	}

	if err := dbx.Model(&dev).Updates(map[string]any{
		"is_banned": false,
		"reason":    "",
		"banned_at": nil,
	}).Error; err != nil {
		return fmt.Errorf("unban device %d: %w", id, err)
	}

	return nil
}

// List 分页列出设备.
func (s *DeviceService) List(ctx context.Context, page, size int) (*types.ListDevicesResponse, error) {
	const defaultSize = 50

	if page < 1 {
		page = 1
	}

	if size < 1 {
		size = defaultSize
	}

	dbx := s.dbc.GetDB().WithContext(ctx)

	var total int64
	if err := dbx.Model(&model.Device{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count devices: %w", err)
	}

	var devices []model.Device
	if err := dbx.Order("last_seen DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&devices).Error; err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}

	out := make([]types.DeviceInfo, 0, len(devices))
	for i := range devices {
		d := &devices[i]
		out = append(out, types.DeviceInfo{
			ID:        d.ID,
			DeviceID:  d.DeviceID,
			HWID:      d.HWID,
			Serial:    d.Serial,
			MAC:       d.MAC,
			IsBanned:  d.IsBanned,
			Reason:    d.Reason,
			BannedAt:  d.BannedAt,
			FirstSeen: d.FirstSeen,
			LastSeen:  d.LastSeen,
		})
	}

	return &types.ListDevicesResponse{Devices: out, Total: total, Page: page, Size: size}, nil
}
