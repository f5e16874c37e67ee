// Package notifier fans out workspace change pings to live UI views.
package notifier

import "sync"

// Notifier tells every subscribed view that the workspace changed. A ping
// carries no payload; receivers re-query the store and re-render.
type Notifier struct {
	mu   sync.Mutex
	subs map[chan struct{}]bool
}

// New creates an empty Notifier.
func New() *Notifier {
	return &Notifier{subs: make(map[chan struct{}]bool)}
}

// Subscribe registers a listener. The channel buffers one pending ping;
// callers must Unsubscribe when done.
func (n *Notifier) Subscribe() chan struct{} {
	ch := make(chan struct{}, 1)
	n.mu.Lock()
	n.subs[ch] = true
	n.mu.Unlock()
	return ch
}

// Unsubscribe drops a listener and closes its channel. Unsubscribing a
// channel that is not registered is a no-op.
func (n *Notifier) Unsubscribe(ch chan struct{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.subs[ch] {
		delete(n.subs, ch)
		close(ch)
	}
}

// Broadcast pings every listener without blocking. A listener with a ping
// already pending needs no second one: it re-reads the store when it wakes.
func (n *Notifier) Broadcast() {
	n.mu.Lock()
	defer n.mu.Unlock()

	for ch := range n.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
