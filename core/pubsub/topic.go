// Package pubsub provides a latest-value fan-out used by the repository and
// the notification broker.
//
// Each subscriber gets a channel with a buffer of one. A publish that finds
// the buffer full replaces the stale value, so slow readers always see the
// most recent value and never block the publisher.
package pubsub

import "sync"

// Topic broadcasts values of type T to subscribers.
type Topic[T any] struct {
	mu      sync.Mutex
	subs    map[uint64]chan T
	next    uint64
	last    T
	hasLast bool
	closed  bool
}

// New creates an empty Topic.
func New[T any]() *Topic[T] {
	return &Topic[T]{subs: make(map[uint64]chan T)}
}

// Publish records v as the latest value and delivers it to every subscriber.
func (t *Topic[T]) Publish(v T) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	t.last = v
	t.hasLast = true
	for _, ch := range t.subs {
		deliver(ch, v)
	}
}

// Subscribe returns a channel that immediately holds the latest value (if
// any) and then every later one. Call cancel to unsubscribe; the channel is
// closed afterwards.
func (t *Topic[T]) Subscribe() (<-chan T, func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	ch := make(chan T, 1)
	if t.closed {
		close(ch)
		return ch, func() {}
	}
	id := t.next
	t.next++
	t.subs[id] = ch
	if t.hasLast {
		ch <- t.last
	}

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			t.mu.Lock()
			defer t.mu.Unlock()
			if c, ok := t.subs[id]; ok {
				delete(t.subs, id)
				close(c)
			}
		})
	}
	return ch, cancel
}

// Close closes every subscriber channel. Later publishes are dropped.
func (t *Topic[T]) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	t.closed = true
	for id, ch := range t.subs {
		delete(t.subs, id)
		close(ch)
	}
}

// deliver must be called with the topic lock held; the topic is the only
// sender so the second send cannot block.
func deliver[T any](ch chan T, v T) {
	select {
	case ch <- v:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	ch <- v
}
