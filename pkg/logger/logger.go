// Package logger provides the slog handler and the HTTP access log middleware.
package logger

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

const (
	FormatJSON = "json"
	FormatText = "text"
)

// Options configures NewHandler. The zero value logs JSON at info level to stdout.
type Options struct {
	Level   slog.Level
	Format  string
	Service string
	Writer  io.Writer
}

// ParseLevel maps a config string to a level, falling back to info.
func ParseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}

	return level
}

// NewHandler builds the process-wide handler. It adds the chi request id
// found in the context to every record.
func NewHandler(opts *Options) slog.Handler {
	if opts == nil {
		opts = &Options{}
	}

	w := opts.Writer
	if w == nil {
		w = os.Stdout
	}

	handlerOpts := &slog.HandlerOptions{Level: opts.Level}

	var h slog.Handler
	if opts.Format == FormatText {
		h = slog.NewTextHandler(w, handlerOpts)
	} else {
		h = slog.NewJSONHandler(w, handlerOpts)
	}

	if opts.Service != "" {
		hostname, _ := os.Hostname()
		h = h.WithAttrs([]slog.Attr{
			slog.String("service", opts.Service),
			slog.String("hostname", hostname),
		})
	}

	return &contextHandler{Handler: h}
}

type contextHandler struct {
	slog.Handler
}

func (h *contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if ctx != nil {
		if reqID := middleware.GetReqID(ctx); reqID != "" {
			r.AddAttrs(slog.String("request_id", reqID))
		}
	}

	return h.Handler.Handle(ctx, r)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithGroup(name)}
}

// NewLoggerMiddleware logs one line per request after it is served.
func NewLoggerMiddleware(log *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			defer func() {
				log.InfoContext(r.Context(), "Request served",
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
					"bytes", ww.BytesWritten(),
					"duration", time.Since(start).String(),
					"remote_addr", r.RemoteAddr,
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
