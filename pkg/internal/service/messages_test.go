package service

import (
	"errors"
	"testing"

	"github.com/yeisme/patchvault/pkg/internal/types"
)

func TestMessagesActiveOrdering(t *testing.T) {
	ctx := newTestContext(t)
	svc := NewMessageService(ctx)

	low, err := svc.Create(ctx, &types.CreateMessageRequest{Type: "info", Message: "low", Priority: 1}, "admin")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Create(ctx, &types.CreateMessageRequest{Type: "alert", Message: "high", Priority: 10}, "admin"); err != nil {
		t.Fatal(err)
	}

	inactive := false
	if _, err := svc.Create(ctx, &types.CreateMessageRequest{Type: "info", Message: "hidden", IsActive: &inactive}, "admin"); err != nil {
		t.Fatal(err)
	}

	msgs, err := svc.Active(ctx)
	if err != nil {
		t.Fatalf("Active() error = %v", err)
	}

	if len(msgs) != 2 {
		t.Fatalf("active messages = %d, want 2", len(msgs))
	}

	if msgs[0].Message != "high" || msgs[1].Message != "low" {
		t.Errorf("ordering = %v, want priority desc", msgs)
	}

	// 停用后不再下发
	if _, err := svc.Toggle(ctx, low.ID); err != nil {
		t.Fatal(err)
	}

	msgs, err = svc.Active(ctx)
	if err != nil {
		t.Fatal(err)
	}

	if len(msgs) != 1 || msgs[0].Message != "high" {
		t.Errorf("after toggle = %v", msgs)
	}
}

func TestMessagesUpdateAndDelete(t *testing.T) {
	ctx := newTestContext(t)
	svc := NewMessageService(ctx)

	m, err := svc.Create(ctx, &types.CreateMessageRequest{Type: "info", Message: "old"}, "admin")
	if err != nil {
		t.Fatal(err)
	}

	text := "new"

	updated, err := svc.Update(ctx, m.ID, &types.UpdateMessageRequest{Message: &text})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if updated.Message != "new" {
		t.Errorf("message = %s, want new", updated.Message)
	}

	if err := svc.Delete(ctx, m.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if err := svc.Delete(ctx, m.ID); !errors.Is(err, ErrMessageNotFound) {
		t.Errorf("double delete error = %v, want ErrMessageNotFound", err)
	}
}
