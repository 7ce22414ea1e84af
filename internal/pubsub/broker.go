package pubsub

import (
	"sync"

	"github.com/surplusmkt/surplus/internal/model"
)

// A Publisher pushes full item snapshots to every subscriber.
type Publisher interface {
	Publish(snapshot []*model.Item)
}

// A Broker fans out full collection snapshots to its subscribers.
//
// Subscriber channels hold a single pending snapshot. When a subscriber lags,
// the stale pending snapshot is dropped and replaced by the newest one, since
// every snapshot is a complete replacement of the previous state.
type Broker struct {
	mu     sync.Mutex
	serial int
	subs   map[int]chan []*model.Item
	closed bool
}

// NewBroker returns a new Broker.
func NewBroker() *Broker {
	return &Broker{
		subs: make(map[int]chan []*model.Item),
	}
}

// Subscribe registers a new subscriber and returns its channel along with an
// unsubscribe function. The unsubscribe function must be invoked exactly once
// when the consumer is torn down but calling it again is harmless.
func (b *Broker) Subscribe() (<-chan []*model.Item, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.serial
	b.serial++

	ch := make(chan []*model.Item, 1)
	if b.closed {
		close(ch)
		return ch, func() {}
	}
	b.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()

			if _, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(ch)
			}
		})
	}
}

// Publish delivers the snapshot to every subscriber without blocking.
func (b *Broker) Publish(snapshot []*model.Item) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs {
		select {
		case ch <- snapshot:
		default:
			// Drop the stale pending snapshot and push the newest one.
			select {
			case <-ch:
			default:
			}
			ch <- snapshot
		}
	}
}

// Close terminates all subscriptions.
func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true

	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
