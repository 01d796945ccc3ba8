package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/yeisme/patchvault/pkg/internal/model"
	"github.com/yeisme/patchvault/pkg/internal/types"
)

// MessageService 启动器公告消息.
type MessageService struct{ base }

func NewMessageService(c context.Context) *MessageService {
	return &MessageService{newBase(c)}
}

// Active 返回启用中的公告，按 priority 降序、created_at 降序，
// 下发格式为 [{"type","message"}].
func (s *MessageService) Active(ctx context.Context) ([]types.ClientMessage, error) {
	dbx := s.dbc.GetDB().WithContext(ctx)

	var msgs []model.NewsMessage
	if err := dbx.Where("is_active = ?", true).
		Order("priority DESC, created_at DESC").
		Find(&msgs).Error; err != nil {
		return nil, fmt.Errorf("list active messages: %w", err)
	}

	out := make([]types.ClientMessage, 0, len(msgs))
	for i := range msgs {
		out = append(out, types.ClientMessage{Type: msgs[i].Type, Message: msgs[i].Message})
	}

	return out, nil
}

// Create 创建公告.
func (s *MessageService) Create(ctx context.Context, req *types.CreateMessageRequest, createdBy string) (*types.MessageInfo, error) {
	row := model.NewsMessage{
		Type:      req.Type,
		Message:   req.Message,
		IsActive:  true,
		Priority:  req.Priority,
		CreatedBy: createdBy,
	}
	if req.IsActive != nil {
		row.IsActive = *req.IsActive
	}

	dbx := s.dbc.GetDB().WithContext(ctx)
	if err := dbx.Create(&row).Error; err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}

	info := messageToInfo(&row)

	return &info, nil
}

// Update 更新公告，nil 字段保持不变.
func (s *MessageService) Update(ctx context.Context, id uint, req *types.UpdateMessageRequest) (*types.MessageInfo, error) {
	dbx := s.dbc.GetDB().WithContext(ctx)

	var row model.NewsMessage
	if err := dbx.First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMessageNotFound
		}

		return nil, fmt.Errorf("load message %d: %w", id, err)
	}

	updates := map[string]any{}
	if req.Type != nil {
		updates["type"] = *req.Type
	}

	if req.Message != nil {
		updates["message"] = *req.Message
	}

	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if req.Priority != nil {
		updates["priority"] = *req.Priority
	}

	if len(updates) > 0 {
		if err := dbx.Model(&row).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("update message %d: %w", id, err)
		}

		if err := dbx.First(&row, id).Error; err != nil {
			return nil, fmt.Errorf("reload message %d: %w", id, err)
		}
	}

	info := messageToInfo(&row)

	return &info, nil
}

// Toggle 翻转公告的启用状态.
func (s *MessageService) Toggle(ctx context.Context, id uint) (*types.MessageInfo, error) {
	dbx := s.dbc.GetDB().WithContext(ctx)

	var row model.NewsMessage
	if err := dbx.First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMessageNotFound
		}

		return nil, fmt.Errorf("load message %d: %w", id, err)
	}

	if err := dbx.Model(&row).Update("is_active", !row.IsActive).Error; err != nil {
		return nil, fmt.Errorf("toggle message %d: %w", id, err)
	}

	row.IsActive = !row.IsActive
	info := messageToInfo(&row)

	return &info, nil
}

// Delete 删除公告.
func (s *MessageService) Delete(ctx context.Context, id uint) error {
	dbx := s.dbc.GetDB().WithContext(ctx)

	res := dbx.Delete(&model.NewsMessage{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete message %d: %w", id, res.Error)
	}

	if res.RowsAffected == 0 {
		return ErrMessageNotFound
	}

	return nil
}

// List 列出全部公告（管理端），按 priority 降序、created_at 降序.
func (s *MessageService) List(ctx context.Context) (*types.ListMessagesResponse, error) {
	dbx := s.dbc.GetDB().WithContext(ctx)

	var msgs []model.NewsMessage
	if err := dbx.Order("priority DESC, created_at DESC").Find(&msgs).Error; err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	out := make([]types.MessageInfo, 0, len(msgs))
	for i := range msgs {
		out = append(out, messageToInfo(&msgs[i]))
	}

	return &types.ListMessagesResponse{Messages: out, Total: len(out)}, nil
}

func messageToInfo(m *model.NewsMessage) types.MessageInfo {
	return types.MessageInfo{
		ID:        m.ID,
		Type:      m.Type,
		Message:   m.Message,
		IsActive:  m.IsActive,
		Priority:  m.Priority,
		CreatedBy: m.CreatedBy,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
