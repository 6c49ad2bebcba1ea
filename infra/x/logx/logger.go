package logx

import (
	"log/slog"
)

// ModuleLogger tags every record of the given component module.
func ModuleLogger(name string, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = slog.Default()
	}
	if name == "" {
		return logger
	}
	return logger.With("module", name)
}
