package platform

import (
	"context"

	"github.com/aretw0/pph/pkg/hub"
)

// New opens the storage and returns a bootstrapped hub over it.
//
//	h, err := pph.New("./data", pph.WithAdapter("sqlite"))
func New(uri string, opts ...Option) (*hub.Hub, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	storage, err := open(uri, o)
	if err != nil {
		return nil, err
	}

	var hubOpts []hub.Option
	if o.logger != nil {
		hubOpts = append(hubOpts, hub.WithLogger(o.logger))
	}
	if o.clock != nil {
		hubOpts = append(hubOpts, hub.WithClock(o.clock))
	}
	if size, ok := o.config["event_buffer"].(int); ok {
		hubOpts = append(hubOpts, hub.WithEventBuffer(size))
	}

	h, err := hub.New(storage, hubOpts...)
	if err != nil {
		return nil, err
	}
	if err := h.Bootstrap(context.Background()); err != nil {
		_ = h.Close()
		return nil, err
	}
	return h, nil
}
