package hub

import (
	"context"
	"sync"

	"github.com/aretw0/pph/pkg/core"
)

// broadcaster fans change events out to subscribers. Slow subscribers miss
// events rather than block the hub.
type broadcaster struct {
	mu     sync.Mutex
	next   int
	subs   map[int]chan core.Event
	buffer int
}

func newBroadcaster(buffer int) *broadcaster {
	return &broadcaster{subs: make(map[int]chan core.Event), buffer: buffer}
}

func (b *broadcaster) subscribe(ctx context.Context) <-chan core.Event {
	b.mu.Lock()
	id := b.next
	b.next++
	ch := make(chan core.Event, b.buffer)
	b.subs[id] = ch
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.subs, id)
		close(ch)
		b.mu.Unlock()
	}()
	return ch
}

func (b *broadcaster) publish(e core.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
		}
	}
}

func (b *broadcaster) len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Subscribe returns a channel of changes applied by the hub. It is closed
// when ctx is done.
func (h *Hub) Subscribe(ctx context.Context) <-chan core.Event {
	return h.subs.subscribe(ctx)
}

func (h *Hub) notify(t core.EventType, key string) {
	h.subs.publish(core.Event{Type: t, Key: key, Timestamp: h.now().UnixMilli()})
}
