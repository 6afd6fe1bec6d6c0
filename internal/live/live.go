// Package live holds small helpers for latest-wins snapshot streams.
//
// A stream is a channel with capacity one fed by a single sender. Offer
// replaces an undelivered value instead of queueing behind it, so a slow
// receiver only ever observes the newest snapshot.
package live

import "context"

// New returns a channel suitable for Offer
func New[T any]() chan T {
	return make(chan T, 1)
}

// Offer places v on ch, dropping any value still waiting to be received.
// ch must have capacity one and Offer must be its only sender.
func Offer[T any](ch chan T, v T) {
	for {
		select {
		case ch <- v:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

// Map forwards every value from in through fn, keeping latest-wins semantics.
// The returned channel closes when in closes or ctx is done.
func Map[In, Out any](ctx context.Context, in <-chan In, fn func(In) Out) <-chan Out {
	out := New[Out]()
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case v, ok := <-in:
				if !ok {
					return
				}
				Offer(out, fn(v))
			}
		}
	}()
	return out
}
