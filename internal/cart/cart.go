package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/techshop/storefront/internal/domain"
	"github.com/techshop/storefront/internal/events"
	"github.com/techshop/storefront/internal/session"
	"github.com/techshop/storefront/internal/store"
)

// ProductFinder resolves product ids, normally the catalog cache.
type ProductFinder interface {
	Find(id int64) (domain.Product, bool)
}

// AuthChecker gates cart mutations on an authenticated session.
type AuthChecker interface {
	IsAuthenticated() bool
}

// Manager owns the cart lines. Every mutation persists the full snapshot
// before notifying, so a reload right after a mutation observes consistent
// state.
type Manager struct {
	catalog ProductFinder
	auth    AuthChecker
	store   store.Store
	bus     *events.Bus

	mu    sync.Mutex
	items []domain.CartItem
}

func NewManager(catalog ProductFinder, auth AuthChecker, st store.Store, bus *events.Bus) *Manager {
	return &Manager{catalog: catalog, auth: auth, store: st, bus: bus}
}

// Restore loads the persisted snapshot at startup. Absent or corrupt data
// starts an empty cart; corruption is logged, never fatal.
func (m *Manager) Restore(ctx context.Context) {
	raw, err := m.store.Get(ctx, store.KeyCart)
	if err != nil {
		if !errors.Is(err, store.ErrKeyNotFound) {
			log.Printf("restoring cart: %v", err)
		}
		return
	}

	var items []domain.CartItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		log.Printf("corrupt cart snapshot, starting empty: %v", err)
		return
	}

	m.mu.Lock()
	m.items = items
	m.mu.Unlock()
}

// Add puts one more of the product into the cart. Unauthenticated callers
// get an auth-required signal and the cart is untouched. An unknown product
// id is logged and ignored.
func (m *Manager) Add(ctx context.Context, productID int64) error {
	if !m.auth.IsAuthenticated() {
		m.bus.Publish(events.TopicAuthRequired, nil)
		m.bus.Publish(events.TopicToast, "Please login to add items to your cart!")
		return session.ErrNotAuthenticated
	}

	product, ok := m.catalog.Find(productID)
	if !ok {
		log.Printf("add to cart: unknown product id %d", productID)
		return nil
	}

	m.mu.Lock()
	found := false
	for i := range m.items {
		if m.items[i].ID == productID {
			m.items[i].Quantity++
			found = true
			break
		}
	}
	if !found {
		m.items = append(m.items, domain.CartItem{Product: product, Quantity: 1})
	}

	if err := m.persistLocked(ctx); err != nil {
		m.mu.Unlock()
		return err
	}
	state := m.stateLocked()
	m.mu.Unlock()

	m.bus.Publish(events.TopicCartUpdated, state)
	m.bus.Publish(events.TopicToast, fmt.Sprintf("%s added to cart!", product.Name))
	return nil
}

// Remove deletes the product's line. Removing an absent id is a no-op.
func (m *Manager) Remove(ctx context.Context, productID int64) error {
	m.mu.Lock()
	kept := m.items[:0]
	for _, item := range m.items {
		if item.ID != productID {
			kept = append(kept, item)
		}
	}
	m.items = kept

	if err := m.persistLocked(ctx); err != nil {
		m.mu.Unlock()
		return err
	}
	state := m.stateLocked()
	m.mu.Unlock()

	m.bus.Publish(events.TopicCartUpdated, state)
	return nil
}

// Clear empties the cart and persists the empty state. Called by the
// checkout orchestrator after a confirmed order.
func (m *Manager) Clear(ctx context.Context) error {
	m.mu.Lock()
	m.items = nil

	if err := m.persistLocked(ctx); err != nil {
		m.mu.Unlock()
		return err
	}
	state := m.stateLocked()
	m.mu.Unlock()

	m.bus.Publish(events.TopicCartUpdated, state)
	return nil
}

func (m *Manager) persistLocked(ctx context.Context) error {
	snapshot, err := json.Marshal(m.items)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}
	if err := m.store.Set(ctx, store.KeyCart, string(snapshot)); err != nil {
		return fmt.Errorf("persist cart failed: %w", err)
	}
	return nil
}

func (m *Manager) stateLocked() events.CartState {
	return events.CartState{Count: m.countLocked(), Total: m.totalLocked().StringFixed(2)}
}

func (m *Manager) countLocked() int {
	count := 0
	for _, item := range m.items {
		count += item.Quantity
	}
	return count
}

func (m *Manager) totalLocked() decimal.Decimal {
	total := decimal.Zero
	for _, item := range m.items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// Items returns a copy of the cart lines.
func (m *Manager) Items() []domain.CartItem {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]domain.CartItem, len(m.items))
	copy(out, m.items)
	return out
}

// Count is the badge number: the sum of quantities across all lines.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.countLocked()
}

// Total is the exact sum of price x quantity across all lines.
func (m *Manager) Total() decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.totalLocked()
}

// TotalDisplay rounds the total to two decimal places for display.
func (m *Manager) TotalDisplay() string {
	return m.Total().StringFixed(2)
}

// Snapshot copies the cart lines into an order payload. The copy belongs to
// the caller; later cart mutations cannot alter it.
func (m *Manager) Snapshot() []domain.OrderItem {
	m.mu.Lock()
	defer m.mu.Unlock()

	items := make([]domain.OrderItem, len(m.items))
	for i, item := range m.items {
		items[i] = domain.OrderItem{
			ProductID:   item.ID,
			ProductName: item.Name,
			Price:       item.Price,
			Quantity:    item.Quantity,
		}
	}
	return items
}
