package bridge

import (
	"log/slog"

	"github.com/addrbook/contact-bridge-service/infra/pubsub"
	"go.uber.org/fx"
)

var Module = fx.Module(
	"bridge", fx.Provide(
		provideLauncher,
	),
)

// provideLauncher binds the broker-backed launcher when a broker is
// available; otherwise launches degrade to the detached fallback.
func provideLauncher(broker pubsub.Provider, logger *slog.Logger) (Launcher, error) {

	if broker == nil {
		return Detached{}, nil
	}

	l := NewBroker(broker, logger)
	if err := l.Subscribe(); err != nil {
		return nil, err
	}
	return l, nil
}
