package server

import "sync"

// Notifier fans out catalog versions to subscribed event streams.
// Subscribers only need the latest version, so each channel holds one value
// and a slow subscriber has its pending value replaced.
type Notifier struct {
	mu        sync.RWMutex
	listeners map[chan uint64]struct{}
}

// NewNotifier creates a Notifier with no subscribers.
func NewNotifier() *Notifier {
	return &Notifier{listeners: make(map[chan uint64]struct{})}
}

// Subscribe returns a channel receiving catalog versions. Call Unsubscribe
// when done.
func (n *Notifier) Subscribe() chan uint64 {
	ch := make(chan uint64, 1)
	n.mu.Lock()
	n.listeners[ch] = struct{}{}
	n.mu.Unlock()
	return ch
}

// Unsubscribe removes and closes ch.
func (n *Notifier) Unsubscribe(ch chan uint64) {
	n.mu.Lock()
	if _, ok := n.listeners[ch]; ok {
		delete(n.listeners, ch)
		close(ch)
	}
	n.mu.Unlock()
}

// Broadcast delivers version to every subscriber without blocking.
func (n *Notifier) Broadcast(version uint64) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	for ch := range n.listeners {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- version:
		default:
		}
	}
}

// Len returns the number of subscribers.
func (n *Notifier) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.listeners)
}
