package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker/v2"

	"github.com/techshop/storefront/internal/domain"
)

// Client is a typed wrapper over the remote storefront API. Every operation
// is a single request/response; there is no built-in retry.
type Client struct {
	baseURL string
	http    *http.Client

	// Catalog fetches degrade gracefully to a local fallback, so they get a
	// breaker: once the backend is known dead we stop hammering it. Auth and
	// order calls are user-initiated and must always reach the wire.
	catalogBreaker *gobreaker.CircuitBreaker[[]domain.Product]
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL: baseURL,
		http:    httpClient,
		catalogBreaker: gobreaker.NewCircuitBreaker[[]domain.Product](gobreaker.Settings{
			Name: "catalog-fetch",
		}),
	}
}

type productDTO struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
}

func (d productDTO) toDomain() domain.Product {
	return domain.Product{
		ID:          d.ID,
		Name:        d.Name,
		Price:       decimal.NewFromFloat(d.Price),
		Description: d.Description,
		Image:       d.Image,
	}
}

// FetchCatalog retrieves the product list. Fails with *NetworkError or
// *DecodeError; the caller decides how to degrade.
func (c *Client) FetchCatalog(ctx context.Context) ([]domain.Product, error) {
	return c.catalogBreaker.Execute(func() ([]domain.Product, error) {
		return c.fetchCatalog(ctx)
	})
}

func (c *Client) fetchCatalog(ctx context.Context) ([]domain.Product, error) {
	const op = "fetch catalog"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/products", nil)
	if err != nil {
		return nil, &NetworkError{Op: op, Err: err}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &NetworkError{Op: op, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	var dtos []productDTO
	if err := json.NewDecoder(resp.Body).Decode(&dtos); err != nil {
		return nil, &DecodeError{Op: op, Err: err}
	}

	products := make([]domain.Product, len(dtos))
	for i, d := range dtos {
		products[i] = d.toDomain()
	}
	return products, nil
}

// Credentials is the server's answer to a successful login or register.
type Credentials struct {
	Token    string
	Username string
}

type loginRequestDTO struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerRequestDTO struct {
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponseDTO struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

type authErrorDTO struct {
	Message string `json:"message"`
}

func (c *Client) Login(ctx context.Context, username, password string) (*Credentials, error) {
	return c.authenticate(ctx, "login", "/api/auth/login", loginRequestDTO{
		Username: username,
		Password: password,
	})
}

func (c *Client) Register(ctx context.Context, fullName, username, email, password string) (*Credentials, error) {
	return c.authenticate(ctx, "register", "/api/auth/register", registerRequestDTO{
		FullName: fullName,
		Username: username,
		Email:    email,
		Password: password,
	})
}

func (c *Client) authenticate(ctx context.Context, op, path string, payload any) (*Credentials, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%s: encode request: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, &NetworkError{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Surface the server's message when it sent one.
		var e authErrorDTO
		if err := json.NewDecoder(resp.Body).Decode(&e); err == nil && e.Message != "" {
			return nil, &AuthError{Message: e.Message}
		}
		return nil, &AuthError{Message: fmt.Sprintf("%s rejected with status %d", op, resp.StatusCode)}
	}

	var data authResponseDTO
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, &DecodeError{Op: op, Err: err}
	}

	return &Credentials{Token: data.Token, Username: data.Username}, nil
}

type orderItemDTO struct {
	ProductID   int64   `json:"productId"`
	ProductName string  `json:"productName"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
}

type createOrderRequestDTO struct {
	PaymentMethod   string         `json:"paymentMethod"`
	ShippingAddress string         `json:"shippingAddress"`
	Items           []orderItemDTO `json:"items"`
}

type orderResponseDTO struct {
	ID          json.Number `json:"id"`
	TotalAmount float64     `json:"totalAmount"`
}

// CreateOrder submits an order with the caller's bearer token attached. An
// absent or expired token simply produces a failure; there is no re-auth flow.
func (c *Client) CreateOrder(ctx context.Context, order domain.OrderRequest, token string) (*domain.OrderResult, error) {
	const op = "create order"

	payload := createOrderRequestDTO{
		PaymentMethod:   order.PaymentMethod,
		ShippingAddress: order.ShippingAddress,
		Items:           make([]orderItemDTO, len(order.Items)),
	}
	for i, item := range order.Items {
		payload.Items[i] = orderItemDTO{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Price:       item.Price.InexactFloat64(),
			Quantity:    item.Quantity,
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%s: encode request: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/orders/create", bytes.NewReader(body))
	if err != nil {
		return nil, &NetworkError{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &OrderError{Op: op, StatusCode: resp.StatusCode}
	}

	var data orderResponseDTO
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, &DecodeError{Op: op, Err: err}
	}

	return &domain.OrderResult{
		ID:          data.ID.String(),
		TotalAmount: decimal.NewFromFloat(data.TotalAmount),
	}, nil
}

type orderSummaryDTO struct {
	ID              json.Number    `json:"id"`
	TotalAmount     float64        `json:"totalAmount"`
	Status          string         `json:"status"`
	PaymentMethod   string         `json:"paymentMethod"`
	ShippingAddress string         `json:"shippingAddress"`
	CreatedAt       string         `json:"createdAt"`
	Items           []orderItemDTO `json:"items"`
}

// FetchMyOrders returns the authenticated user's order history.
func (c *Client) FetchMyOrders(ctx context.Context, token string) ([]domain.OrderSummary, error) {
	const op = "fetch orders"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/orders/my-orders", nil)
	if err != nil {
		return nil, &NetworkError{Op: op, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &OrderError{Op: op, StatusCode: resp.StatusCode}
	}

	var dtos []orderSummaryDTO
	if err := json.NewDecoder(resp.Body).Decode(&dtos); err != nil {
		return nil, &DecodeError{Op: op, Err: err}
	}

	orders := make([]domain.OrderSummary, len(dtos))
	for i, d := range dtos {
		items := make([]domain.OrderItem, len(d.Items))
		for j, it := range d.Items {
			items[j] = domain.OrderItem{
				ProductID:   it.ProductID,
				ProductName: it.ProductName,
				Price:       decimal.NewFromFloat(it.Price),
				Quantity:    it.Quantity,
			}
		}
		orders[i] = domain.OrderSummary{
			ID:              d.ID.String(),
			TotalAmount:     decimal.NewFromFloat(d.TotalAmount),
			Status:          d.Status,
			PaymentMethod:   d.PaymentMethod,
			ShippingAddress: d.ShippingAddress,
			CreatedAt:       d.CreatedAt,
			Items:           items,
		}
	}
	return orders, nil
}
