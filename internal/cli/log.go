package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/kustodian/sunburst/pkg/observability"
)

// newLogger creates a logger with "HH:MM:SS.ms" timestamps.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs completion of an operation with its elapsed time.
// Not safe for concurrent use.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, e.g. "Loaded 42 nodes (1.234s)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached by withLogger, or
// log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// =============================================================================
// Hook logging
// =============================================================================

// EnableHookLogging routes pipeline, navigation, cache and HTTP hooks to
// l at debug level.
func EnableHookLogging(l *log.Logger) {
	h := logHooks{l.WithPrefix("hooks")}
	observability.SetPipelineHooks(h)
	observability.SetNavigationHooks(h)
	observability.SetCacheHooks(h)
	observability.SetHTTPHooks(h)
}

// logHooks implements every observability hook interface.
type logHooks struct {
	l *log.Logger
}

func (h logHooks) OnLoadStart(_ context.Context, source string) {
	h.l.Debug("load start", "source", source)
}

func (h logHooks) OnLoadComplete(_ context.Context, source string, nodes int, d time.Duration, err error) {
	h.l.Debug("load done", "source", source, "nodes", nodes, "duration", d, "err", err)
}

func (h logHooks) OnRenderStart(_ context.Context, vizType string, formats []string) {
	h.l.Debug("render start", "type", vizType, "formats", formats)
}

func (h logHooks) OnRenderComplete(_ context.Context, vizType string, formats []string, d time.Duration, err error) {
	h.l.Debug("render done", "type", vizType, "formats", formats, "duration", d, "err", err)
}

func (h logHooks) OnActivate(_ context.Context, depth int, changed bool) {
	h.l.Debug("activate", "depth", depth, "changed", changed)
}

func (h logHooks) OnLookup(_ context.Context, itemID int64, d time.Duration, stale bool, err error) {
	h.l.Debug("item lookup", "item", itemID, "duration", d, "stale", stale, "err", err)
}

func (h logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.l.Debug("cache hit", "type", keyType)
}

func (h logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.l.Debug("cache miss", "type", keyType)
}

func (h logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.l.Debug("cache set", "type", keyType, "bytes", size)
}

func (h logHooks) OnRequest(_ context.Context, method, host, path string) {
	h.l.Debug("request", "method", method, "host", host, "path", path)
}

func (h logHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.l.Debug("response", "method", method, "host", host, "path", path, "status", status, "duration", d)
}

func (h logHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.l.Debug("request failed", "method", method, "host", host, "path", path, "err", err)
}
