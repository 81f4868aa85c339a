// Command storefront is the interactive storefront client. It talks to the
// remote API for the catalog, auth and orders, keeps the cart and session in
// a local durable store, and degrades to a built-in sample catalog when the
// backend is unreachable.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/techshop/storefront/internal/api"
	"github.com/techshop/storefront/internal/app"
	"github.com/techshop/storefront/internal/config"
	"github.com/techshop/storefront/internal/domain"
	"github.com/techshop/storefront/internal/events"
	"github.com/techshop/storefront/internal/store"
)

func main() {
	cfg := config.Load()

	st, err := openStore(cfg)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}

	client := api.NewClient(cfg.APIURL, &http.Client{Timeout: cfg.RequestTimeout})
	a := app.New(client, st)
	defer a.Close()

	subscribeOutput(a.Bus)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout)
	a.Init(ctx)
	cancel()

	runREPL(a, cfg.RequestTimeout)
}

func openStore(cfg config.Config) (store.Store, error) {
	switch cfg.StoreBackend {
	case "redis":
		return store.NewRedisStore(redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})), nil
	default:
		s, err := store.NewSQLiteStore(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		if err := s.RunMigrations(cfg.MigrationsPath); err != nil {
			return nil, fmt.Errorf("running migrations: %w", err)
		}
		return s, nil
	}
}

// subscribeOutput is the presentation layer: it renders bus events to the
// terminal. Managers never print directly.
func subscribeOutput(bus *events.Bus) {
	bus.Subscribe(events.TopicToast, func(payload any) {
		if msg, ok := payload.(string); ok {
			fmt.Printf("  >> %s\n", msg)
		}
	})
	bus.Subscribe(events.TopicCartUpdated, func(payload any) {
		if state, ok := payload.(events.CartState); ok {
			fmt.Printf("  [cart: %d items, $%s]\n", state.Count, state.Total)
		}
	})
	bus.Subscribe(events.TopicAuthUpdated, func(payload any) {
		if sess, ok := payload.(domain.Session); ok && sess.Authenticated() {
			fmt.Printf("  [signed in as %s]\n", sess.Username)
		}
	})
	bus.Subscribe(events.TopicCheckoutSucceeded, func(payload any) {
		if placed, ok := payload.(events.OrderPlaced); ok {
			fmt.Printf("  [order #%s confirmed, total $%s]\n", placed.OrderID, placed.Total)
		}
	})
}

func runREPL(a *app.App, timeout time.Duration) {
	scanner := bufio.NewScanner(os.Stdin)
	printHelp()

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		quit := dispatch(ctx, a, scanner, fields)
		cancel()
		if quit {
			return
		}
	}
}

func dispatch(ctx context.Context, a *app.App, scanner *bufio.Scanner, fields []string) (quit bool) {
	switch fields[0] {
	case "help":
		printHelp()
	case "list":
		printProducts(a)
	case "add":
		withID(fields, func(id int64) {
			if err := a.Cart.Add(ctx, id); err != nil {
				log.Printf("add failed: %v", err)
			}
		})
	case "rm":
		withID(fields, func(id int64) {
			if err := a.Cart.Remove(ctx, id); err != nil {
				log.Printf("remove failed: %v", err)
			}
		})
	case "cart":
		printCart(a)
	case "login":
		username := prompt(scanner, "username: ")
		password := prompt(scanner, "password: ")
		if _, err := a.Session.Login(ctx, username, password); err != nil {
			fmt.Printf("  !! %v\n", err)
		}
	case "register":
		fullName := prompt(scanner, "full name: ")
		username := prompt(scanner, "username: ")
		email := prompt(scanner, "email: ")
		password := prompt(scanner, "password: ")
		if _, err := a.Session.Register(ctx, fullName, username, email, password); err != nil {
			fmt.Printf("  !! %v\n", err)
		}
	case "logout":
		a.Session.Logout(ctx)
	case "checkout":
		runCheckout(ctx, a, scanner)
	case "orders":
		printOrders(ctx, a)
	case "quit", "exit":
		return true
	default:
		fmt.Printf("unknown command %q, try 'help'\n", fields[0])
	}
	return false
}

func runCheckout(ctx context.Context, a *app.App, scanner *bufio.Scanner) {
	if err := a.Checkout.Begin(); err != nil {
		return // the refusal already printed its reason
	}

	fmt.Printf("  order total: $%s\n", a.Cart.TotalDisplay())
	payment := prompt(scanner, "payment method: ")
	address := prompt(scanner, "shipping address: ")

	if _, err := a.Checkout.Submit(ctx, payment, address); err != nil {
		a.Checkout.Cancel()
	}
}

func printProducts(a *app.App) {
	for _, p := range a.Catalog.Products() {
		fmt.Printf("  %2d  %s %-20s $%s\n", p.ID, p.Image, p.Name, p.Price.StringFixed(2))
	}
}

func printCart(a *app.App) {
	items := a.Cart.Items()
	if len(items) == 0 {
		fmt.Println("  cart is empty")
		return
	}
	for _, item := range items {
		fmt.Printf("  %dx %-20s $%s\n", item.Quantity, item.Name, item.Subtotal().StringFixed(2))
	}
	fmt.Printf("  total: $%s\n", a.Cart.TotalDisplay())
}

func printOrders(ctx context.Context, a *app.App) {
	orders, err := a.Orders(ctx)
	if err != nil {
		return
	}
	if len(orders) == 0 {
		fmt.Println("  no orders yet")
		return
	}
	for _, o := range orders {
		fmt.Printf("  #%s  %s  $%s  %s\n", o.ID, o.Status, o.TotalAmount.StringFixed(2), o.CreatedAt)
		for _, item := range o.Items {
			fmt.Printf("      %dx %s\n", item.Quantity, item.ProductName)
		}
	}
}

func withID(fields []string, fn func(id int64)) {
	if len(fields) < 2 {
		fmt.Println("  product id required")
		return
	}
	id, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		fmt.Printf("  invalid product id %q\n", fields[1])
		return
	}
	fn(id)
}

func prompt(scanner *bufio.Scanner, label string) string {
	fmt.Print(label)
	if !scanner.Scan() {
		return ""
	}
	return strings.TrimSpace(scanner.Text())
}

func printHelp() {
	fmt.Println(`commands:
  list            show the product catalog
  add <id>        add a product to the cart
  rm <id>         remove a product from the cart
  cart            show the cart
  login           sign in
  register        create an account
  logout          sign out
  checkout        place an order
  orders          show order history
  quit            exit`)
}
