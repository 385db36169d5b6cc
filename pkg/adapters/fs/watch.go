package fs

import (
	"context"
	"fmt"

	"github.com/aretw0/lifecycle"
	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/pph/pkg/core"
)

// Watch reports changes made to matching keys by other processes. Changes
// written through this Storage are skipped, the way a browser only fires
// "storage" events in the other tabs.
//
// The returned channel is closed once ctx is done.
func (s *Storage) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	if pattern == "" {
		pattern = "*"
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid watch pattern %q", pattern)
	}

	raw := make(chan core.Event, s.config.EventBuffer)
	w := newWatchWorker(s, pattern, raw)
	if err := w.Start(ctx); err != nil {
		return nil, err
	}

	out := make(chan core.Event)
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case e := <-raw:
				select {
				case out <- e:
				case <-ctx.Done():
					return nil
				}
			}
		}
	}, lifecycle.WithErrorHandler(func(err error) {
		if s.config.ErrorHandler != nil {
			s.config.ErrorHandler(fmt.Errorf("watch bridge: %w", err))
		} else if s.config.Logger != nil {
			s.config.Logger.Error("watch bridge failed", "error", err)
		}
	}))

	return out, nil
}
