package app

import (
	"context"
	"log"

	"github.com/techshop/storefront/internal/api"
	"github.com/techshop/storefront/internal/cart"
	"github.com/techshop/storefront/internal/catalog"
	"github.com/techshop/storefront/internal/checkout"
	"github.com/techshop/storefront/internal/domain"
	"github.com/techshop/storefront/internal/events"
	"github.com/techshop/storefront/internal/session"
	"github.com/techshop/storefront/internal/store"
)

// App is the composition root: it wires the managers together over one bus
// and one store and owns their lifecycle.
type App struct {
	Bus      *events.Bus
	Store    store.Store
	Client   *api.Client
	Catalog  *catalog.Cache
	Session  *session.Manager
	Cart     *cart.Manager
	Checkout *checkout.Orchestrator
}

func New(client *api.Client, st store.Store) *App {
	bus := events.NewBus()

	cat := catalog.NewCache(client, bus)
	sess := session.NewManager(client, st, bus)
	crt := cart.NewManager(cat, sess, st, bus)
	chk := checkout.NewOrchestrator(sess, crt, client, bus)

	return &App{
		Bus:      bus,
		Store:    st,
		Client:   client,
		Catalog:  cat,
		Session:  sess,
		Cart:     crt,
		Checkout: chk,
	}
}

// Init restores persisted state and loads the catalog. Subscribers attached
// before Init observe one auth-updated and one cart-updated event describing
// the restored state, then the products-updated event from the catalog load.
func (a *App) Init(ctx context.Context) {
	a.Session.Restore(ctx)
	a.Cart.Restore(ctx)

	a.Bus.Publish(events.TopicAuthUpdated, a.Session.Session())
	a.Bus.Publish(events.TopicCartUpdated, events.CartState{
		Count: a.Cart.Count(),
		Total: a.Cart.TotalDisplay(),
	})

	a.Catalog.Load(ctx)
}

// Orders fetches the authenticated user's order history, newest first per the
// server's ordering.
func (a *App) Orders(ctx context.Context) ([]domain.OrderSummary, error) {
	if !a.Session.IsAuthenticated() {
		a.Bus.Publish(events.TopicAuthRequired, nil)
		a.Bus.Publish(events.TopicToast, "Please login to view your orders!")
		return nil, session.ErrNotAuthenticated
	}
	return a.Client.FetchMyOrders(ctx, a.Session.Token())
}

// Close releases the store. Safe to call once at shutdown.
func (a *App) Close() {
	if err := a.Store.Close(); err != nil {
		log.Printf("closing store: %v", err)
	}
}
