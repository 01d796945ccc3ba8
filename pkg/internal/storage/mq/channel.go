package mq

import (
	"context"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/yeisme/patchvault/pkg/configs"
)

// init 注册进程内 gochannel 工厂，单机部署的默认选择.
func init() {
	RegisterFactory(configs.MQTypeChannel, channelFactory)
}

// channelFactory 创建进程内 Publisher & Subscriber，发布与订阅共享同一实例.
func channelFactory(
	_ context.Context,
	cfg *configs.MQConfig,
	logger watermill.LoggerAdapter) (
	message.Publisher, message.Subscriber, error) {
	ps := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: int64(cfg.Common.BufferSize),
	}, logger)

	return ps, ps, nil
}
