package hub

import (
	"log/slog"
	"time"

	"github.com/aretw0/pph/pkg/render"
)

type options struct {
	logger      *slog.Logger
	clock       func() time.Time
	renderer    *render.Renderer
	eventBuffer int
}

// Option configures a Hub.
type Option func(*options)

func defaultOptions() *options {
	return &options{
		logger:      slog.Default(),
		clock:       time.Now,
		eventBuffer: 16,
	}
}

// WithLogger sets the logger for the hub and its stores.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithClock sets the time source used for record ids and event timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.clock = now
		}
	}
}

// WithRenderer shares a renderer instead of parsing the templates again.
func WithRenderer(r *render.Renderer) Option {
	return func(o *options) {
		o.renderer = r
	}
}

// WithEventBuffer sets the per-subscriber buffer size. Zero means 16.
func WithEventBuffer(size int) Option {
	return func(o *options) {
		if size > 0 {
			o.eventBuffer = size
		}
	}
}
