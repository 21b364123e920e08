package slog

import (
	"log/slog"

	"github.com/fwojciec/olxgpu"
)

// Ensure LoggingResolver implements olxgpu.ModelResolver.
var _ olxgpu.ModelResolver = (*LoggingResolver)(nil)

// LoggingResolver wraps a ModelResolver. Resolved titles are logged at debug
// level, unresolved ones at warn level.
type LoggingResolver struct {
	next   olxgpu.ModelResolver
	logger *slog.Logger
}

// NewLoggingResolver creates a new LoggingResolver.
func NewLoggingResolver(next olxgpu.ModelResolver, logger *slog.Logger) *LoggingResolver {
	return &LoggingResolver{next: next, logger: logger}
}

// Resolve delegates to the wrapped resolver and logs the outcome.
func (r *LoggingResolver) Resolve(title string) (model string, err error) {
	model, err = r.next.Resolve(title)
	if err != nil {
		r.logger.Warn("resolve", "title", title, "err", err)
		return model, err
	}
	r.logger.Debug("resolve", "title", title, "model", model)
	return model, nil
}
