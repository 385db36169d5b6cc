package hub

import (
	"context"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/pph/pkg/core"
)

// Follow applies every change emitted by src until src closes or ctx is
// done. It returns immediately; the loop runs in a lifecycle goroutine.
func (h *Hub) Follow(ctx context.Context, src lifecycle.Source) error {
	if err := src.Start(ctx); err != nil {
		return err
	}
	lifecycle.Go(ctx, func(ctx context.Context) error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-src.Events():
				if !ok {
					return nil
				}
				change, ok := e.(core.Event)
				if !ok {
					continue
				}
				h.logger.Debug("external change", "event", change.String())
				if err := h.Apply(ctx, change); err != nil {
					h.logger.Warn("failed to apply external change", "key", change.Key, "error", err)
				}
			}
		}
	}, lifecycle.WithErrorHandler(func(err error) {
		h.logger.Error("follow loop failed", "error", err)
	}))
	return nil
}
