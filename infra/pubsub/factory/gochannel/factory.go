// Package gochannel is the in-process broker: publisher and subscribers
// share one GoChannel, so a single binary needs no external messaging
// infrastructure.
package gochannel

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/addrbook/contact-bridge-service/infra/pubsub/factory"
)

type Factory struct {
	channel *gochannel.GoChannel
}

var _ factory.Factory = (*Factory)(nil)

func NewFactory(logger watermill.LoggerAdapter) *Factory {
	return &Factory{
		channel: gochannel.NewGoChannel(
			gochannel.Config{
				OutputChannelBuffer: 64,
			},
			logger,
		),
	}
}

func (f *Factory) BuildPublisher(_ *factory.PublisherConfig) (message.Publisher, error) {
	return f.channel, nil
}

func (f *Factory) BuildSubscriber(_ string, _ *factory.SubscriberConfig) (message.Subscriber, error) {
	return f.channel, nil
}

func (f *Factory) Close() error {
	return f.channel.Close()
}
