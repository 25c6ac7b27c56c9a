package notify

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/macropad/internal/keyaction"
)

// Sentinel errors for the notifier.
var (
	// ErrNilHandler is returned when a nil handler is subscribed.
	ErrNilHandler = errors.New("notify: handler cannot be nil")

	// ErrSubscriptionNotFound is returned when unsubscribing an unknown ID.
	ErrSubscriptionNotFound = errors.New("notify: subscription not found")
)

// Kind identifies what happened to the store.
type Kind int

const (
	// Recorded reports a newly committed macro.
	Recorded Kind = iota

	// Cleared reports one or more macros marked deleted.
	Cleared

	// Compacted reports a completed compaction pass.
	Compacted

	// Reinitialized reports that the region was reset to an empty log.
	Reinitialized
)

// String returns the kind's name.
func (k Kind) String() string {
	switch k {
	case Recorded:
		return "recorded"
	case Cleared:
		return "cleared"
	case Compacted:
		return "compacted"
	case Reinitialized:
		return "reinitialized"
	default:
		return "unknown"
	}
}

// Event describes one store change.
type Event struct {
	// Kind is the change category.
	Kind Kind

	// Trigger is the affected macro's trigger for Recorded and Cleared
	// events of a single macro; zero otherwise.
	Trigger keyaction.KeyAction

	// Reclaimed is the number of bytes a Compacted event freed.
	Reclaimed int
}

// Handler processes one event.
type Handler func(Event)

// subscription pairs a handler with its insertion order.
type subscription struct {
	id      string
	handler Handler
}

// Notifier fans events out to subscribed handlers.
type Notifier struct {
	mu   sync.RWMutex
	subs []subscription
}

// New creates an empty notifier.
func New() *Notifier {
	return &Notifier{}
}

// Subscribe registers a handler and returns its subscription ID.
func (n *Notifier) Subscribe(fn Handler) (string, error) {
	if fn == nil {
		return "", ErrNilHandler
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	id := uuid.NewString()
	n.subs = append(n.subs, subscription{id: id, handler: fn})
	return id, nil
}

// Unsubscribe removes the handler with the given subscription ID.
func (n *Notifier) Unsubscribe(id string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	for i, s := range n.subs {
		if s.id == id {
			n.subs = append(n.subs[:i], n.subs[i+1:]...)
			return nil
		}
	}
	return ErrSubscriptionNotFound
}

// Publish delivers e to every handler in subscription order.
func (n *Notifier) Publish(e Event) {
	n.mu.RLock()
	subs := make([]subscription, len(n.subs))
	copy(subs, n.subs)
	n.mu.RUnlock()

	for _, s := range subs {
		s.handler(e)
	}
}

// Len returns the number of active subscriptions.
func (n *Notifier) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.subs)
}
