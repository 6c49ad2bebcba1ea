package amqp

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-amqp/v3/pkg/amqp"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/addrbook/contact-bridge-service/infra/pubsub/factory"
)

type Factory struct {
	url    string
	logger watermill.LoggerAdapter
}

var _ factory.Factory = (*Factory)(nil)

func NewFactory(url string, logger watermill.LoggerAdapter) (*Factory, error) {
	return &Factory{
		url:    url,
		logger: logger,
	}, nil
}

func (f *Factory) BuildPublisher(cfg *factory.PublisherConfig) (message.Publisher, error) {

	conf := amqp.NewDurablePubSubConfig(f.url, nil)
	conf.Marshaler = Marshaler{}

	if cfg != nil {
		exchange := cfg.Exchange
		conf.Exchange.GenerateName = func(topic string) string {
			if exchange.Name != "" {
				return exchange.Name
			}
			return topic
		}
		if exchange.Type != "" {
			conf.Exchange.Type = exchange.Type
		}
		conf.Exchange.Durable = exchange.Durable
	}

	return amqp.NewPublisher(conf, f.logger)
}

func (f *Factory) BuildSubscriber(name string, cfg *factory.SubscriberConfig) (message.Subscriber, error) {

	queue := func(topic string) string {
		if cfg != nil && cfg.Queue != "" {
			return cfg.Queue
		}
		if name != "" {
			return name
		}
		return topic + "_" + watermill.NewShortUUID()
	}

	conf := amqp.NewDurablePubSubConfig(f.url, queue)
	conf.Marshaler = Marshaler{}

	if cfg != nil {
		exchange := cfg.Exchange
		if exchange.Name != "" {
			conf.Exchange.GenerateName = func(string) string {
				return exchange.Name
			}
		}
		if exchange.Type != "" {
			conf.Exchange.Type = exchange.Type
		}
		conf.Exchange.Durable = exchange.Durable

		if cfg.RoutingKey != "" {
			routingKey := cfg.RoutingKey
			conf.QueueBind.GenerateRoutingKey = func(string) string {
				return routingKey
			}
		}
		conf.Consume.Exclusive = cfg.ExclusiveConsumer
	}

	return amqp.NewSubscriber(conf, f.logger)
}

func (f *Factory) Close() error {
	return nil
}
