// Package service 实现业务逻辑，存储客户端从请求上下文注入.
package service

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"

	ctxPkg "github.com/yeisme/patchvault/pkg/context"
	"github.com/yeisme/patchvault/pkg/internal/storage/blob"
	"github.com/yeisme/patchvault/pkg/internal/storage/db"
	"github.com/yeisme/patchvault/pkg/internal/storage/mq"
)

// base 各业务服务共享的存储客户端.
type base struct {
	dbc  *db.Client
	blob blob.Store
	mqc  *mq.Client
}

func newBase(c context.Context) base {
	return base{
		dbc:  ctxPkg.GetDBClient(c),
		blob: ctxPkg.GetBlobStore(c),
		mqc:  ctxPkg.GetMQClient(c),
	}
}

// mqPublisher 将 mq.Client 适配为 watermill 的 message.Publisher.
type mqPublisher struct{ c *mq.Client }

func (p mqPublisher) Publish(topic string, msgs ...*message.Message) error {
	return p.c.Publish(context.Background(), topic, msgs...)
}

func (p mqPublisher) Close() error { return nil }
