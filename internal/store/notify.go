package store

import (
	"sync"

	"github.com/tiendita-app/tiendita/internal/models"
)

// Notifier fans out collection change signals so list views can stay live
// without polling. Signals carry no payload; a subscriber re-reads the
// collection when woken.
type Notifier struct {
	mu     sync.Mutex
	nextID int
	subs   map[models.Collection]map[int]chan struct{}
}

func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[models.Collection]map[int]chan struct{})}
}

// Subscribe returns a channel that receives a signal after every write to
// the collection, and a function to unsubscribe. The channel is buffered
// with capacity one, so rapid writes coalesce into a single pending
// signal and a slow subscriber never blocks a writer.
func (n *Notifier) Subscribe(col models.Collection) (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	n.mu.Lock()
	if n.subs[col] == nil {
		n.subs[col] = make(map[int]chan struct{})
	}
	id := n.nextID
	n.nextID++
	n.subs[col][id] = ch
	n.mu.Unlock()

	unsubscribe := func() {
		n.mu.Lock()
		delete(n.subs[col], id)
		n.mu.Unlock()
	}
	return ch, unsubscribe
}

// Notify signals every subscriber of the collection without blocking.
func (n *Notifier) Notify(col models.Collection) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, ch := range n.subs[col] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
