package events

import "sync"

// Topics the presentation layer subscribes to.
const (
	TopicProductsUpdated   = "products-updated"
	TopicCartUpdated       = "cart-updated"
	TopicAuthUpdated       = "auth-updated"
	TopicCheckoutSucceeded = "checkout-succeeded"
	TopicCheckoutFailed    = "checkout-failed"
	TopicToast             = "toast"
	TopicAuthRequired      = "auth-required"
)

// OrderPlaced is the checkout-succeeded payload. Total is formatted with
// two decimal places for display.
type OrderPlaced struct {
	OrderID string
	Total   string
}

// CheckoutFailure is the checkout-failed payload.
type CheckoutFailure struct {
	Message string
}

// CartState is the cart-updated payload (badge count plus display total).
type CartState struct {
	Count int
	Total string
}

type Handler func(payload any)

type subscription struct {
	id      int
	handler Handler
}

// Bus is a synchronous in-process notification bus. Handlers run on the
// publishing goroutine, in subscription order, so persistence-then-notify
// ordering is preserved for the caller.
type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   map[string][]subscription
}

func NewBus() *Bus {
	return &Bus{subs: make(map[string][]subscription)}
}

// Subscribe registers a handler for a topic and returns an unsubscribe func.
func (b *Bus) Subscribe(topic string, h Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.subs[topic] = append(b.subs[topic], subscription{id: id, handler: h})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		subs := b.subs[topic]
		for i, s := range subs {
			if s.id == id {
				b.subs[topic] = append(subs[:i], subs[i+1:]...)
				return
			}
		}
	}
}

// Publish delivers payload to every handler subscribed to topic. Handlers
// are snapshotted under the lock and invoked outside it, so a handler may
// subscribe or publish without deadlocking.
func (b *Bus) Publish(topic string, payload any) {
	b.mu.Lock()
	subs := make([]subscription, len(b.subs[topic]))
	copy(subs, b.subs[topic])
	b.mu.Unlock()

	for _, s := range subs {
		s.handler(payload)
	}
}
