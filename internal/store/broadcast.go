package store

import (
	"context"
	"sync"
)

// broadcaster fans state snapshots out to subscribers. Each subscriber has a
// one-slot buffer holding the latest snapshot; a slow reader skips
// intermediate snapshots and never blocks the publisher.
type broadcaster[T any] struct {
	mu   sync.Mutex
	subs map[chan T]struct{}
}

func newBroadcaster[T any]() *broadcaster[T] {
	return &broadcaster[T]{subs: make(map[chan T]struct{})}
}

// subscribe registers a channel primed with current. The channel is closed
// when ctx is done.
func (b *broadcaster[T]) subscribe(ctx context.Context, current T) <-chan T {
	ch := make(chan T, 1)
	ch <- current

	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.subs, ch)
		close(ch)
		b.mu.Unlock()
	}()
	return ch
}

func (b *broadcaster[T]) publish(v T) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- v:
			continue
		default:
		}
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- v:
		default:
		}
	}
}

func (b *broadcaster[T]) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
