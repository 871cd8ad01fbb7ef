// Package notify delivers configuration changes to subscribers.
//
// Delivery is synchronous and happens on the goroutine that reports the
// change, in subscription order. Observers may unsubscribe, including
// themselves, while a change is being delivered.
package notify

import (
	"strings"
	"sync"
)

// ChangeType represents the type of configuration change.
type ChangeType int

const (
	// ChangeSet indicates a value was set or updated.
	ChangeSet ChangeType = iota

	// ChangeDelete indicates a value was removed.
	ChangeDelete

	// ChangeReload indicates a source was reloaded. It is sent once after
	// the individual changes of the reload.
	ChangeReload
)

// String returns the change type name.
func (c ChangeType) String() string {
	switch c {
	case ChangeSet:
		return "set"
	case ChangeDelete:
		return "delete"
	case ChangeReload:
		return "reload"
	default:
		return "unknown"
	}
}

// Change represents a configuration change event.
type Change struct {
	// Path is the dot-separated path to the changed setting.
	// Empty for reload events.
	Path string

	// Type is the type of change.
	Type ChangeType

	// OldValue is the previous value (may be nil).
	OldValue any

	// NewValue is the new value (nil for deletes).
	NewValue any

	// Source names the layer the change came from.
	Source string
}

// Observer is called when configuration changes occur.
type Observer func(change Change)

// Subscription represents an active observer subscription.
type Subscription struct {
	id       uint64
	path     string
	observer Observer
	notifier *Notifier
}

// Unsubscribe removes this subscription. It is safe to call more than once.
func (s *Subscription) Unsubscribe() {
	if s.notifier != nil {
		s.notifier.unsubscribe(s.id)
	}
}

// Notifier manages configuration change subscriptions.
type Notifier struct {
	mu     sync.Mutex
	subs   []*Subscription
	nextID uint64
	closed bool
}

// New creates a Notifier.
func New() *Notifier {
	return &Notifier{}
}

// Subscribe registers an observer for all changes.
func (n *Notifier) Subscribe(observer Observer) *Subscription {
	return n.SubscribePath("", observer)
}

// SubscribePath registers an observer for changes to path and the settings
// below it. Subscribing to "viewport" receives changes to "viewport.width".
// Every path observer receives reload events.
func (n *Notifier) SubscribePath(path string, observer Observer) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.nextID++
	sub := &Subscription{id: n.nextID, path: path, observer: observer, notifier: n}
	if !n.closed {
		n.subs = append(n.subs, sub)
	}
	return sub
}

// Notify sends a change to all matching observers.
func (n *Notifier) Notify(change Change) {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return
	}
	var observers []Observer
	for _, sub := range n.subs {
		if matches(sub.path, change) {
			observers = append(observers, sub.observer)
		}
	}
	n.mu.Unlock()

	for _, obs := range observers {
		obs(change)
	}
}

// NotifyReload sends each change followed by a single reload event for
// source.
func (n *Notifier) NotifyReload(source string, changes []Change) {
	for _, c := range changes {
		n.Notify(c)
	}
	n.Notify(Change{Type: ChangeReload, Source: source})
}

// Len returns the number of active subscriptions.
func (n *Notifier) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.subs)
}

// Close drops every subscription. Later notifications are ignored.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.closed = true
	n.subs = nil
}

func (n *Notifier) unsubscribe(id uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for i, sub := range n.subs {
		if sub.id == id {
			n.subs = append(n.subs[:i:i], n.subs[i+1:]...)
			return
		}
	}
}

func matches(path string, change Change) bool {
	if path == "" || change.Type == ChangeReload {
		return true
	}
	return change.Path == path || strings.HasPrefix(change.Path, path+".")
}
