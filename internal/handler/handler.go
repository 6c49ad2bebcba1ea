package handler

import (
	"go.uber.org/fx"

	"github.com/addrbook/contact-bridge-service/infra/pubsub"
	"github.com/addrbook/contact-bridge-service/infra/pubsub/factory"
)

var Module = fx.Module(
	"handler",
	fx.Provide(
		NewService,
	),
	fx.Invoke(
		Subscribe,
	),
)

// Subscribe wires the method-call handler into the broker router:
// requests stream in on the method topic, replies go out correlated on
// the reply topic.
func Subscribe(h *Service, broker pubsub.Provider) error {

	sub, err := broker.GetFactory().BuildSubscriber(
		"", // name ; autogen
		&factory.SubscriberConfig{
			RoutingKey: TopicMethod,
		},
	)
	if err != nil {
		return err
	}

	_ = broker.GetRouter().AddHandler(
		"contacts.method",
		// subscriber
		TopicMethod, sub,
		// publisher
		TopicReply, broker.Publisher(),
		// handler
		h.onMethodCall,
	)

	return nil
}
