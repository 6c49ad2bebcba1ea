package handler

import (
	"log/slog"

	"github.com/addrbook/contact-bridge-service/infra/pubsub"
	"github.com/addrbook/contact-bridge-service/internal/contacts"
	"go.uber.org/fx"
)

// Service (Handler) Options
type ServiceOptions struct {
	fx.In // Input Params
	Logs  *slog.Logger

	Broker   pubsub.Provider
	Contacts *contacts.Service
}

// Service dispatches method-call messages onto the contacts service and
// publishes the replies.
type Service struct {
	opts ServiceOptions
}

func NewService(opts ServiceOptions) (*Service, error) {
	return &Service{
		opts: opts,
	}, nil
}

func (h *Service) Options() ServiceOptions {
	return h.opts
}
