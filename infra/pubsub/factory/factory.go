package factory

import (
	"github.com/ThreeDotsLabs/watermill/message"
)

type ExchangeConfig struct {
	Name    string
	Type    string
	Durable bool
}

type SubscriberConfig struct {
	Exchange          ExchangeConfig
	Queue             string
	RoutingKey        string
	ExclusiveConsumer bool
}

type PublisherConfig struct {
	Exchange ExchangeConfig
}

// Factory builds broker-specific publishers and subscribers behind the
// watermill message contracts.
type Factory interface {
	// BuildPublisher returns a publisher; nil config means the broker
	// default exchange.
	BuildPublisher(cfg *PublisherConfig) (message.Publisher, error)
	// BuildSubscriber returns a subscriber; empty name gets autogenerated.
	BuildSubscriber(name string, cfg *SubscriberConfig) (message.Subscriber, error)
	Close() error
}
