package pubsub

import (
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/addrbook/contact-bridge-service/infra/pubsub/factory"
)

type Provider interface {
	GetRouter() *message.Router
	GetFactory() factory.Factory
	// Publisher is the shared default-exchange publisher.
	Publisher() message.Publisher
}

type DefaultProvider struct {
	router    *message.Router
	factory   factory.Factory
	publisher message.Publisher
}

var _ Provider = (*DefaultProvider)(nil)

func NewDefaultProvider(router *message.Router, f factory.Factory) (Provider, error) {

	pub, err := f.BuildPublisher(nil)
	if err != nil {
		return nil, err
	}

	return &DefaultProvider{
		router:    router,
		factory:   f,
		publisher: pub,
	}, nil
}

func (p *DefaultProvider) GetRouter() *message.Router {
	return p.router
}

func (p *DefaultProvider) GetFactory() factory.Factory {
	return p.factory
}

func (p *DefaultProvider) Publisher() message.Publisher {
	return p.publisher
}
