package cmd

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strconv"

	sfmt "github.com/samber/slog-formatter"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/addrbook/contact-bridge-service/config"
	"github.com/addrbook/contact-bridge-service/infra/db/pg"
	"github.com/addrbook/contact-bridge-service/infra/pubsub"
	"github.com/addrbook/contact-bridge-service/infra/pubsub/factory"
	"github.com/addrbook/contact-bridge-service/infra/pubsub/factory/amqp"
	"github.com/addrbook/contact-bridge-service/infra/pubsub/factory/gochannel"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"go.uber.org/fx"
)

func ProvideLogger(cfg *config.Config, lc fx.Lifecycle) (*slog.Logger, error) {
	logSettings := cfg.Log

	if !logSettings.Console && logSettings.File == "" {
		logSettings.Console = true
	}

	level := parseLevel(logSettings.Level)
	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handlers []slog.Handler

	if logSettings.Console {
		var h slog.Handler
		if logSettings.JSON {
			h = slog.NewJSONHandler(os.Stdout, opts)
		} else {
			h = console(os.Stdout, level)
		}
		handlers = append(handlers, h)
	}

	// File Handler
	if logSettings.File != "" {
		f, err := os.OpenFile(logSettings.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}

		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return f.Close()
			},
		})

		var h slog.Handler
		if logSettings.JSON {
			h = slog.NewJSONHandler(f, opts)
		} else {
			h = slog.NewTextHandler(f, opts)
		}
		handlers = append(handlers, h)
	}

	var finalHandler slog.Handler
	if len(handlers) == 0 {
		finalHandler = slog.NewTextHandler(os.Stdout, opts)
	} else if len(handlers) == 1 {
		finalHandler = handlers[0]
	} else {
		finalHandler = MultiHandler(handlers...)
	}

	logger := slog.New(finalHandler)
	slog.SetDefault(logger)

	return logger, nil
}

func parseLevel(input string) (level slog.Level) {
	err := level.UnmarshalText([]byte(input))
	if err != nil {
		// default: info
		level = slog.LevelInfo
	}
	return // level
}

func console(output *os.File, verbose slog.Level) slog.Handler {
	colorize, _ := strconv.ParseBool(
		os.Getenv("CONTACTS_LOG_COLOR"),
	)
	if colorize {
		colorize = isatty.IsTerminal(
			output.Fd(),
		)
	}
	return sfmt.NewFormatterHandler(
		sfmt.ErrorFormatter("err"),
		sfmt.ErrorFormatter("error"),
	)(
		tint.NewHandler(output, &tint.Options{
			AddSource:  false,
			Level:      verbose.Level(),
			TimeFormat: "Jan 02 15:04:05.000", // time.StampMilli,
			NoColor:    !colorize,
		}),
	)
}

type multiHandler struct {
	handlers []slog.Handler
}

func MultiHandler(handlers ...slog.Handler) slog.Handler {
	return &multiHandler{handlers: handlers}
}

func (h *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, hh := range h.handlers {
		if hh.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *multiHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, hh := range h.handlers {
		if hh.Enabled(ctx, r.Level) {
			_ = hh.Handle(ctx, r)
		}
	}
	return nil
}

func (h *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newHandlers := make([]slog.Handler, len(h.handlers))
	for i, hh := range h.handlers {
		newHandlers[i] = hh.WithAttrs(attrs)
	}
	return &multiHandler{handlers: newHandlers}
}

func (h *multiHandler) WithGroup(name string) slog.Handler {
	newHandlers := make([]slog.Handler, len(h.handlers))
	for i, hh := range h.handlers {
		newHandlers[i] = hh.WithGroup(name)
	}
	return &multiHandler{handlers: newHandlers}
}

func ProvidePubSub(cfg *config.Config, l *slog.Logger, lc fx.Lifecycle) (pubsub.Provider, error) {

	var (
		pubsubConfig  = cfg.Pubsub
		loggerAdapter = watermill.NewSlogLogger(l)
		pubsubFactory factory.Factory
		err           error
	)

	switch pubsubConfig.Driver {
	case "amqp":
		pubsubFactory, err = amqp.NewFactory(pubsubConfig.URL, loggerAdapter)
		if err != nil {
			return nil, err
		}
	case "", "gochannel":
		pubsubFactory = gochannel.NewFactory(loggerAdapter)
	default:
		return nil, errors.New("pubsub driver not supported")
	}

	router, err := message.NewRouter(message.RouterConfig{}, loggerAdapter)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return router.Close()
		},
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := router.Run(context.Background()); err != nil {
					l.Error("pubsub router", "error", err)
				}
			}()
			select {
			case <-router.Running():
			case <-ctx.Done():
				return ctx.Err()
			}
			return nil
		},
	})

	return pubsub.NewDefaultProvider(router, pubsubFactory)
}

func ProvideNewDBConnection(cfg *config.Config, l *slog.Logger, lc fx.Lifecycle) (*pg.DB, error) {
	db, err := pg.New(context.Background(), l, cfg.Postgres.DSN)
	if err != nil {
		return nil, err
	}

	pg.SetDefault(db)

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) (_ error) {
			db.Client().Close()
			return // nil
		},
	})

	return db, err
}
