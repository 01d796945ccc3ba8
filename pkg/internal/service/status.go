package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yeisme/patchvault/pkg/internal/model"
	"github.com/yeisme/patchvault/pkg/internal/types"
)

// StatusService 服务状态概览.
type StatusService struct{ base }

func NewStatusService(c context.Context) *StatusService {
	return &StatusService{newBase(c)}
}

// Overview 汇总最新版本、当前启动器与制品总量.
func (s *StatusService) Overview(ctx context.Context) (*types.StatusResponse, error) {
	resp := &types.StatusResponse{
		Status:          "online",
		LatestVersion:   "N/A",
		LauncherVersion: "N/A",
		Timestamp:       time.Now().UTC(),
	}

	vs := NewVersionService(ctx)
	if latest, err := vs.Latest(ctx); err == nil {
		resp.LatestVersion = latest.Version
	} else if !errors.Is(err, ErrVersionNotFound) {
		return nil, err
	}

	ls := NewLauncherService(ctx)
	if current, err := ls.Current(ctx); err == nil {
		resp.LauncherVersion = current.Version
	} else if !errors.Is(err, ErrLauncherNotFound) {
		return nil, err
	}

	dbx := s.dbc.GetDB().WithContext(ctx)

	if err := dbx.Model(&model.GameFile{}).Count(&resp.TotalFiles).Error; err != nil {
		return nil, fmt.Errorf("count files: %w", err)
	}

	if err := dbx.Model(&model.UpdatePackage{}).Count(&resp.TotalPackages).Error; err != nil {
		return nil, fmt.Errorf("count packages: %w", err)
	}

	return resp, nil
}
