// Package viewmodel holds the state containers that sit between the
// repository and the terminal UI.
//
// A container owns one state value and a stream of one-shot effects. State is
// a durable snapshot any observer can read at any time; effects reach only the
// subscribers that are listening when they are emitted and are never replayed.
package viewmodel

import (
	"context"
	"log/slog"
	"sync"

	"github.com/tgienger/todo/internal/live"
)

const effectBuffer = 16

// Base is the state and effect plumbing shared by every container
type Base[S, F any] struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.Mutex
	state    S
	watchers map[int]chan S
	effects  map[int]chan F
	nextID   int
	closed   bool
}

// NewBase creates a container holding initial
func NewBase[S, F any](initial S) *Base[S, F] {
	ctx, cancel := context.WithCancel(context.Background())
	return &Base[S, F]{
		ctx:      ctx,
		cancel:   cancel,
		state:    initial,
		watchers: make(map[int]chan S),
		effects:  make(map[int]chan F),
	}
}

// State returns the current snapshot
func (b *Base[S, F]) State() S {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// SetState applies reducer to the current state atomically and publishes the result
func (b *Base[S, F]) SetState(reducer func(S) S) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.state = reducer(b.state)
	for _, ch := range b.watchers {
		live.Offer(ch, b.state)
	}
}

// WatchState streams state snapshots, starting with the current one. Only the
// newest undelivered snapshot is kept. The channel closes when ctx is done or
// the container is closed.
func (b *Base[S, F]) WatchState(ctx context.Context) <-chan S {
	ch := live.New[S]()

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(ch)
		return ch
	}
	id := b.nextID
	b.nextID++
	b.watchers[id] = ch
	ch <- b.state
	b.mu.Unlock()

	go b.unsubscribeOnDone(ctx, func() {
		if c, ok := b.watchers[id]; ok {
			delete(b.watchers, id)
			close(c)
		}
	})
	return ch
}

// Effects subscribes to one-shot notifications emitted from now on. The
// channel closes when ctx is done or the container is closed.
func (b *Base[S, F]) Effects(ctx context.Context) <-chan F {
	ch := make(chan F, effectBuffer)

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(ch)
		return ch
	}
	id := b.nextID
	b.nextID++
	b.effects[id] = ch
	b.mu.Unlock()

	go b.unsubscribeOnDone(ctx, func() {
		if c, ok := b.effects[id]; ok {
			delete(b.effects, id)
			close(c)
		}
	})
	return ch
}

func (b *Base[S, F]) unsubscribeOnDone(ctx context.Context, remove func()) {
	select {
	case <-ctx.Done():
	case <-b.ctx.Done():
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	remove()
}

// SetEffect delivers effect to every current subscriber. A subscriber whose
// buffer is full misses the effect rather than stalling the container.
func (b *Base[S, F]) SetEffect(effect F) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	for id, ch := range b.effects {
		select {
		case ch <- effect:
		default:
			slog.Warn("effect dropped for slow subscriber", "subscriber", id)
		}
	}
}

// Go runs fn in a goroutine bound to the container's lifetime
func (b *Base[S, F]) Go(fn func(ctx context.Context)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		fn(b.ctx)
	}()
}

// Context is cancelled when the container is closed
func (b *Base[S, F]) Context() context.Context {
	return b.ctx
}

// Closed reports whether Close has been called
func (b *Base[S, F]) Closed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}

// Close cancels outstanding work, waits for it to finish and closes every
// subscriber channel
func (b *Base[S, F]) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	b.cancel()
	b.mu.Unlock()

	b.wg.Wait()

	b.mu.Lock()
	defer b.mu.Unlock()
	for id, ch := range b.watchers {
		delete(b.watchers, id)
		close(ch)
	}
	for id, ch := range b.effects {
		delete(b.effects, id)
		close(ch)
	}
}
