package postgres

import (
	"context"

	"github.com/addrbook/contact-bridge-service/internal/store"
	"go.uber.org/fx"
)

var Module = fx.Module(
	"store", fx.Provide(
		fx.Annotate(NewContactStore, fx.As(new(store.DataStore)), fx.As(fx.Self())),
	),
	fx.Invoke(func(lc fx.Lifecycle, c *ContactStore) {
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				return c.EnsureSchema(ctx)
			},
		})
	}),
)
