// Package notify implements the change-notification signal: a
// fire-and-forget broadcast with no payload beyond "something changed".
// It keeps open views in sync after a mutation; it is advisory, not
// transactional.
package notify

import "sync"

// Listener receives change signals.
type Listener interface {
	Changed()
}

// Broker fans a change signal out to in-process subscribers. Publishing
// never blocks: a subscriber that has not drained its channel keeps the
// single pending signal it already has.
type Broker struct {
	mu   sync.Mutex
	subs map[int]chan struct{}
	next int
}

func NewBroker() *Broker {
	return &Broker{subs: make(map[int]chan struct{})}
}

// Subscribe registers a new listener channel. The returned cancel function
// must be called when the subscriber goes away.
func (b *Broker) Subscribe() (<-chan struct{}, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.next
	b.next++
	ch := make(chan struct{}, 1)
	b.subs[id] = ch
	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs, id)
	}
	return ch, cancel
}

// Changed broadcasts the signal to all current subscribers.
func (b *Broker) Changed() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Multi fans a change signal out to several listeners in order.
type Multi []Listener

func (m Multi) Changed() {
	for _, l := range m {
		l.Changed()
	}
}
