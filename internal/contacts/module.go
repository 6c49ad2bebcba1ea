package contacts

import (
	"context"

	"github.com/addrbook/contact-bridge-service/internal/labels"
	"go.uber.org/fx"
)

var Module = fx.Module(
	"contacts", fx.Provide(
		func() *labels.Resolver { return labels.NewResolver() },
		NewService,
	),
	fx.Invoke(func(lc fx.Lifecycle, s *Service) {
		lc.Append(fx.Hook{
			OnStop: func(_ context.Context) error {
				s.Close()
				return nil
			},
		})
	}),
)
