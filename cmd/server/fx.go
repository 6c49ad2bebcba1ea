package server

import (
	"go.uber.org/fx"

	"github.com/addrbook/contact-bridge-service/cmd"
	"github.com/addrbook/contact-bridge-service/config"
	"github.com/addrbook/contact-bridge-service/internal/bridge"
	"github.com/addrbook/contact-bridge-service/internal/contacts"
	"github.com/addrbook/contact-bridge-service/internal/handler"
	"github.com/addrbook/contact-bridge-service/internal/store/postgres"
)

func NewApp(cfg *config.Config) *fx.App {
	return fx.New(
		fx.Provide(
			func() *config.Config { return cfg },
			cmd.ProvideLogger,
			cmd.ProvidePubSub,
			cmd.ProvideNewDBConnection,
		),
		postgres.Module,
		bridge.Module,
		contacts.Module,
		handler.Module,
	)
}
