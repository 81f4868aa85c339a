package checkout

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/techshop/storefront/internal/domain"
	"github.com/techshop/storefront/internal/events"
	"github.com/techshop/storefront/internal/session"
)

var (
	ErrEmptyCart          = errors.New("cart is empty, nothing to checkout")
	ErrNotReviewing       = errors.New("checkout is not in the reviewing state")
	ErrSubmissionInFlight = errors.New("an order submission is already in flight")
	ErrStaleResponse      = errors.New("stale order response discarded")

	IllegalTransitionError = errors.New("illegal transition of checkout status")
)

// Placeholder confirmation values used when the server omits the order id or
// total. A defensive default, not a validated guarantee.
const (
	placeholderOrderID = "12345"
	placeholderTotal   = "0.00"
)

// SessionInfo is what the orchestrator needs from the session manager.
type SessionInfo interface {
	IsAuthenticated() bool
	Token() string
}

// CartAccess is what the orchestrator needs from the cart manager.
type CartAccess interface {
	Count() int
	Snapshot() []domain.OrderItem
	Clear(ctx context.Context) error
}

// OrderPlacer is the remote order authority.
type OrderPlacer interface {
	CreateOrder(ctx context.Context, order domain.OrderRequest, token string) (*domain.OrderResult, error)
}

// Form holds the user's entered payment data. It survives a failed
// submission so the user can retry without retyping.
type Form struct {
	PaymentMethod   string
	ShippingAddress string
}

// Orchestrator drives Idle -> Reviewing -> Submitting -> Succeeded/Failed.
// Succeeded commits back to Idle, Failed returns to Reviewing with the form
// and cart intact.
type Orchestrator struct {
	session SessionInfo
	cart    CartAccess
	orders  OrderPlacer
	bus     *events.Bus

	mu      sync.Mutex
	status  Status
	form    Form
	attempt string // tag of the in-flight submission, guards stale responses
	last    *domain.OrderResult
}

func NewOrchestrator(sess SessionInfo, cart CartAccess, orders OrderPlacer, bus *events.Bus) *Orchestrator {
	return &Orchestrator{
		session: sess,
		cart:    cart,
		orders:  orders,
		bus:     bus,
		status:  StatusIdle,
	}
}

// Begin moves Idle to Reviewing. The entry guard requires an authenticated
// session and a non-empty cart; a refused transition emits the explanatory
// signal instead.
func (o *Orchestrator) Begin() error {
	o.mu.Lock()
	if !CanTransitionTo(o.status, StatusReviewing) {
		status := o.status
		o.mu.Unlock()
		log.Printf("checkout begin refused in status %s", status)
		return IllegalTransitionError
	}
	o.mu.Unlock()

	if !o.session.IsAuthenticated() {
		o.bus.Publish(events.TopicAuthRequired, nil)
		o.bus.Publish(events.TopicToast, "Please login to proceed with payment!")
		return session.ErrNotAuthenticated
	}
	if o.cart.Count() == 0 {
		o.bus.Publish(events.TopicToast, "Your cart is empty!")
		return ErrEmptyCart
	}

	o.mu.Lock()
	o.status = StatusReviewing
	o.mu.Unlock()
	return nil
}

// Cancel abandons the review and returns to Idle, dropping the form.
func (o *Orchestrator) Cancel() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.status == StatusReviewing {
		o.status = StatusIdle
		o.form = Form{}
	}
}

// Submit runs Reviewing -> Submitting and places the order. The payload is
// snapshotted from the cart at submit time; cart mutations during the
// in-flight call cannot alter it. On success the cart clear and the
// confirmation are one logical commit and the machine returns to Idle. On
// failure the machine passes through Failed back to Reviewing, preserving
// form and cart for retry; the server's message is not threaded through.
func (o *Orchestrator) Submit(ctx context.Context, paymentMethod, shippingAddress string) (*domain.OrderResult, error) {
	o.mu.Lock()
	if o.status == StatusSubmitting {
		o.mu.Unlock()
		return nil, ErrSubmissionInFlight
	}
	if o.status != StatusReviewing {
		o.mu.Unlock()
		return nil, ErrNotReviewing
	}

	o.form = Form{PaymentMethod: paymentMethod, ShippingAddress: shippingAddress}

	if paymentMethod == "" {
		o.mu.Unlock()
		o.bus.Publish(events.TopicToast, "Please fill all required fields")
		return nil, &domain.ValidationError{Field: "payment method"}
	}
	if shippingAddress == "" {
		o.mu.Unlock()
		o.bus.Publish(events.TopicToast, "Please fill all required fields")
		return nil, &domain.ValidationError{Field: "shipping address"}
	}

	order := domain.OrderRequest{
		PaymentMethod:   paymentMethod,
		ShippingAddress: shippingAddress,
		Items:           o.cart.Snapshot(),
	}
	attempt := uuid.NewString()
	o.attempt = attempt
	o.status = StatusSubmitting
	token := o.session.Token()
	o.mu.Unlock()

	result, err := o.orders.CreateOrder(ctx, order, token)

	o.mu.Lock()
	if o.attempt != attempt {
		// A newer flow superseded this submission; its late resolution must
		// not touch the current state.
		o.mu.Unlock()
		log.Printf("discarding stale order response for attempt %s", attempt)
		return nil, ErrStaleResponse
	}

	if err != nil {
		// Failed is transient: it immediately resolves to Reviewing so the
		// user can retry with form and cart intact.
		o.status = StatusReviewing
		o.mu.Unlock()

		log.Printf("order submission failed: %v", err)
		o.bus.Publish(events.TopicCheckoutFailed, events.CheckoutFailure{Message: "Payment failed. Please try again."})
		o.bus.Publish(events.TopicToast, "Payment failed. Please try again.")
		return nil, err
	}

	o.status = StatusSucceeded
	o.last = result
	o.form = Form{}
	o.mu.Unlock()

	if cerr := o.cart.Clear(ctx); cerr != nil {
		log.Printf("clearing cart after order: %v", cerr)
	}

	o.bus.Publish(events.TopicCheckoutSucceeded, confirmation(result))
	o.bus.Publish(events.TopicToast, "Order placed successfully! Thank you for your purchase!")

	o.mu.Lock()
	o.status = StatusIdle
	o.mu.Unlock()

	return result, nil
}

func confirmation(result *domain.OrderResult) events.OrderPlaced {
	placed := events.OrderPlaced{OrderID: placeholderOrderID, Total: placeholderTotal}
	if result.ID != "" {
		placed.OrderID = result.ID
	}
	if !result.TotalAmount.IsZero() {
		placed.Total = result.TotalAmount.StringFixed(2)
	}
	return placed
}

func (o *Orchestrator) Status() Status {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.status
}

func (o *Orchestrator) Form() Form {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.form
}

// LastResult is the most recent successful order, if any.
func (o *Orchestrator) LastResult() *domain.OrderResult {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.last
}
