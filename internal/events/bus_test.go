package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublish_DispatchOrder(t *testing.T) {
	bus := NewBus()

	var got []string
	bus.Subscribe(TopicToast, func(payload any) {
		got = append(got, "first:"+payload.(string))
	})
	bus.Subscribe(TopicToast, func(payload any) {
		got = append(got, "second:"+payload.(string))
	})

	bus.Publish(TopicToast, "hello")

	assert.Equal(t, []string{"first:hello", "second:hello"}, got)
}

func TestPublish_NoSubscribers(t *testing.T) {
	bus := NewBus()
	// Must not panic.
	bus.Publish(TopicCartUpdated, CartState{Count: 1, Total: "9.99"})
}

func TestUnsubscribe(t *testing.T) {
	bus := NewBus()

	calls := 0
	unsubscribe := bus.Subscribe(TopicAuthUpdated, func(any) { calls++ })

	bus.Publish(TopicAuthUpdated, nil)
	unsubscribe()
	bus.Publish(TopicAuthUpdated, nil)

	assert.Equal(t, 1, calls)
}

func TestSubscribe_OtherTopicNotDelivered(t *testing.T) {
	bus := NewBus()

	calls := 0
	bus.Subscribe(TopicCheckoutFailed, func(any) { calls++ })

	bus.Publish(TopicCheckoutSucceeded, OrderPlaced{OrderID: "1", Total: "0.00"})

	assert.Zero(t, calls)
}
