// Command devserver is a self-contained stand-in for the remote storefront
// API. It keeps users, tokens and orders in memory and exists so the
// storefront client can be exercised without the real backend.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/techshop/storefront/internal/config"
)

type product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
}

var products = []product{
	{1, "Wireless Headphones", 99.99, "Premium noise-canceling wireless headphones", "🎧"},
	{2, "Smartphone", 599.99, "Latest flagship smartphone with advanced camera", "📱"},
	{3, "Laptop", 999.99, "High-performance laptop for work and gaming", "💻"},
	{4, "Smartwatch", 199.99, "Fitness tracking smartwatch with heart rate monitor", "⌚"},
	{5, "Tablet", 399.99, "Lightweight tablet perfect for entertainment", "📲"},
	{6, "Gaming Console", 499.99, "Next-gen gaming console with 4K support", "🎮"},
}

type user struct {
	FullName string
	Username string
	Email    string
	Password string
}

type orderItem struct {
	ProductID   int64   `json:"productId"`
	ProductName string  `json:"productName"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
}

type order struct {
	ID              int64       `json:"id"`
	TotalAmount     float64     `json:"totalAmount"`
	Status          string      `json:"status"`
	PaymentMethod   string      `json:"paymentMethod"`
	ShippingAddress string      `json:"shippingAddress"`
	CreatedAt       string      `json:"createdAt"`
	Items           []orderItem `json:"items"`
}

// state is the whole backend: users by username, sessions by token, orders
// by username. Everything is lost on restart, which is the point.
type state struct {
	mu       sync.Mutex
	users    map[string]user
	sessions map[string]string // token -> username
	orders   map[string][]order
	nextID   int64
}

func newState() *state {
	return &state{
		users:    make(map[string]user),
		sessions: make(map[string]string),
		orders:   make(map[string][]order),
		nextID:   10001,
	}
}

func (s *state) register(u user) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[u.Username]; exists {
		return "", false
	}
	s.users[u.Username] = u
	token := uuid.NewString()
	s.sessions[token] = u.Username
	return token, true
}

func (s *state) login(username, password string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[username]
	if !ok || u.Password != password {
		return "", false
	}
	token := uuid.NewString()
	s.sessions[token] = username
	return token, true
}

func (s *state) authenticate(r *http.Request) (string, bool) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if token == "" {
		return "", false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	username, ok := s.sessions[token]
	return username, ok
}

func (s *state) createOrder(username string, o order) order {
	s.mu.Lock()
	defer s.mu.Unlock()

	o.ID = s.nextID
	s.nextID++
	o.Status = "PENDING"
	o.CreatedAt = time.Now().Format("2006-01-02T15:04:05")
	for _, item := range o.Items {
		o.TotalAmount += item.Price * float64(item.Quantity)
	}
	s.orders[username] = append(s.orders[username], o)
	return o
}

func (s *state) ordersFor(username string) []order {
	s.mu.Lock()
	defer s.mu.Unlock()

	own := s.orders[username]
	// Newest first.
	out := make([]order, len(own))
	for i, o := range own {
		out[len(own)-1-i] = o
	}
	return out
}

func main() {
	cfg := config.Load()
	st := newState()

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(cfg.RequestTimeout))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/api/products", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, products)
	})

	r.Post("/api/auth/register", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			FullName string `json:"fullName"`
			Username string `json:"username"`
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if body.Username == "" || body.Password == "" || body.Email == "" || body.FullName == "" {
			respondError(w, http.StatusBadRequest, "All fields are required")
			return
		}

		token, ok := st.register(user(body))
		if !ok {
			respondError(w, http.StatusBadRequest, "Username already exists")
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{"token": token, "username": body.Username})
	})

	r.Post("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		token, ok := st.login(body.Username, body.Password)
		if !ok {
			respondError(w, http.StatusUnauthorized, "Invalid username or password")
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{"token": token, "username": body.Username})
	})

	r.Post("/api/orders/create", func(w http.ResponseWriter, r *http.Request) {
		username, ok := st.authenticate(r)
		if !ok {
			respondError(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		var body order
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if len(body.Items) == 0 {
			respondError(w, http.StatusBadRequest, "Order must contain at least one item")
			return
		}

		created := st.createOrder(username, body)
		respondJSON(w, http.StatusOK, created)
	})

	r.Get("/api/orders/my-orders", func(w http.ResponseWriter, r *http.Request) {
		username, ok := st.authenticate(r)
		if !ok {
			respondError(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		respondJSON(w, http.StatusOK, st.ordersFor(username))
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("devserver starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"message": message})
}
