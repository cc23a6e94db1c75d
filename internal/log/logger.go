package log

import (
	"context"
	stderrors "errors"
	"log/slog"
	"strings"

	"github.com/felixgeelhaar/rcup/internal/errors"
)

// Redacted replaces the value of any attribute that may carry a secret.
const Redacted = "[REDACTED]"

var secretKeys = map[string]bool{
	"password":      true,
	"credential":    true,
	"token":         true,
	"access_token":  true,
	"authorization": true,
}

// Logger is an slog logger that knows about coded errors and request IDs.
type Logger struct {
	slog   *slog.Logger
	config Config
}

// New builds a Logger from config. Every entry logged with a context that
// carries a request ID gets a request_id attribute; secrets are redacted.
func New(config Config) *Logger {
	opts := &slog.HandlerOptions{
		Level:       config.Level.ToSlogLevel(),
		AddSource:   config.AddSource,
		ReplaceAttr: redact,
	}

	var handler slog.Handler
	if config.Format == FormatJSON {
		handler = slog.NewJSONHandler(config.Output, opts)
	} else {
		handler = slog.NewTextHandler(config.Output, opts)
	}

	return &Logger{
		slog:   slog.New(requestHandler{handler}),
		config: config,
	}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return New(Discard())
}

func redact(groups []string, a slog.Attr) slog.Attr {
	if secretKeys[strings.ToLower(a.Key)] {
		return slog.String(a.Key, Redacted)
	}
	if a.Value.Kind() == slog.KindString && strings.HasPrefix(a.Value.String(), "Bearer ") {
		return slog.String(a.Key, "Bearer "+Redacted)
	}
	return a
}

type requestIDKey struct{}

// WithRequestID returns a context whose log entries carry id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the request ID stored in ctx, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

type requestHandler struct {
	slog.Handler
}

func (h requestHandler) Handle(ctx context.Context, r slog.Record) error {
	if id := RequestID(ctx); id != "" {
		r.AddAttrs(slog.String("request_id", id))
	}
	return h.Handler.Handle(ctx, r)
}

func (h requestHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return requestHandler{h.Handler.WithAttrs(attrs)}
}

func (h requestHandler) WithGroup(name string) slog.Handler {
	return requestHandler{h.Handler.WithGroup(name)}
}

// With returns a Logger that adds args to every entry.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{slog: l.slog.With(args...), config: l.config}
}

// WithComponent tags entries with the emitting package.
func (l *Logger) WithComponent(name string) *Logger {
	return l.With("component", name)
}

// WithError adds err to every entry. Coded errors contribute error_code and
// their cause separately.
func (l *Logger) WithError(err error) *Logger {
	if err == nil {
		return l
	}

	var rerr *errors.RcupError
	if !stderrors.As(err, &rerr) {
		return l.With("error", err.Error())
	}
	args := []any{"error", rerr.Message, "error_code", string(rerr.Code)}
	if rerr.Cause != nil {
		args = append(args, "cause", rerr.Cause.Error())
	}
	return l.With(args...)
}

func (l *Logger) Debug(msg string, args ...any) { l.slog.Debug(msg, args...) }
func (l *Logger) Info(msg string, args ...any)  { l.slog.Info(msg, args...) }
func (l *Logger) Warn(msg string, args ...any)  { l.slog.Warn(msg, args...) }
func (l *Logger) Error(msg string, args ...any) { l.slog.Error(msg, args...) }

func (l *Logger) DebugContext(ctx context.Context, msg string, args ...any) {
	l.slog.DebugContext(ctx, msg, args...)
}

func (l *Logger) InfoContext(ctx context.Context, msg string, args ...any) {
	l.slog.InfoContext(ctx, msg, args...)
}

func (l *Logger) WarnContext(ctx context.Context, msg string, args ...any) {
	l.slog.WarnContext(ctx, msg, args...)
}

func (l *Logger) ErrorContext(ctx context.Context, msg string, args ...any) {
	l.slog.ErrorContext(ctx, msg, args...)
}

// Enabled reports whether entries at level are written.
func (l *Logger) Enabled(ctx context.Context, level Level) bool {
	return l.slog.Enabled(ctx, level.ToSlogLevel())
}

// Config returns the configuration the logger was built from.
func (l *Logger) Config() Config {
	return l.config
}

// Slog exposes the underlying slog logger, for slog.SetDefault.
func (l *Logger) Slog() *slog.Logger {
	return l.slog
}
