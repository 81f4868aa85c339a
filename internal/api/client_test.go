package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techshop/storefront/internal/domain"
)

func TestFetchCatalog_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/products", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id":1,"name":"Wireless Headphones","price":99.99,"description":"High-quality wireless headphones","image":"🎧"},
			{"id":2,"name":"Smartphone","price":599.99,"description":"Latest smartphone","image":"📱"}
		]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	products, err := client.FetchCatalog(context.Background())

	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, int64(2), products[1].ID)
	assert.Equal(t, "Smartphone", products[1].Name)
	assert.Equal(t, "599.99", products[1].Price.String())
}

func TestFetchCatalog_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	_, err := client.FetchCatalog(context.Background())

	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Equal(t, "fetch catalog", netErr.Op)
}

func TestFetchCatalog_ConnectFailure(t *testing.T) {
	// Grab a port nothing listens on.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := NewClient(srv.URL, nil)
	_, err := client.FetchCatalog(context.Background())

	var netErr *NetworkError
	assert.ErrorAs(t, err, &netErr)
}

func TestFetchCatalog_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not":"an array"`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	_, err := client.FetchCatalog(context.Background())

	var decErr *DecodeError
	assert.ErrorAs(t, err, &decErr)
}

func TestLogin_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/auth/login", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "alice", body["username"])
		assert.Equal(t, "secret", body["password"])

		w.Write([]byte(`{"token":"t1","username":"alice"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	creds, err := client.Login(context.Background(), "alice", "secret")

	require.NoError(t, err)
	assert.Equal(t, "t1", creds.Token)
	assert.Equal(t, "alice", creds.Username)
}

func TestLogin_RejectedWithServerMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"Invalid username or password"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	_, err := client.Login(context.Background(), "alice", "wrong")

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "Invalid username or password", authErr.Message)
}

func TestLogin_RejectedWithoutMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	_, err := client.Login(context.Background(), "alice", "secret")

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.NotEmpty(t, authErr.Message)
}

func TestRegister_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/register", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Alice Smith", body["fullName"])
		assert.Equal(t, "alice@example.com", body["email"])

		w.Write([]byte(`{"token":"t2","username":"alice"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	creds, err := client.Register(context.Background(), "Alice Smith", "alice", "alice@example.com", "secret")

	require.NoError(t, err)
	assert.Equal(t, "t2", creds.Token)
}

func TestCreateOrder_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/orders/create", r.URL.Path)
		assert.Equal(t, "Bearer t1", r.Header.Get("Authorization"))

		var body struct {
			PaymentMethod   string `json:"paymentMethod"`
			ShippingAddress string `json:"shippingAddress"`
			Items           []struct {
				ProductID   int64   `json:"productId"`
				ProductName string  `json:"productName"`
				Price       float64 `json:"price"`
				Quantity    int     `json:"quantity"`
			} `json:"items"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "credit_card", body.PaymentMethod)
		require.Len(t, body.Items, 1)
		assert.Equal(t, 599.99, body.Items[0].Price)
		assert.Equal(t, 2, body.Items[0].Quantity)

		w.Write([]byte(`{"id":10001,"totalAmount":1199.98}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	result, err := client.CreateOrder(context.Background(), sampleOrderRequest(), "t1")

	require.NoError(t, err)
	assert.Equal(t, "10001", result.ID)
	assert.Equal(t, "1199.98", result.TotalAmount.String())
}

func TestCreateOrder_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	_, err := client.CreateOrder(context.Background(), sampleOrderRequest(), "expired")

	var orderErr *OrderError
	require.ErrorAs(t, err, &orderErr)
	assert.Equal(t, http.StatusBadRequest, orderErr.StatusCode)
}

func TestFetchMyOrders_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/orders/my-orders", r.URL.Path)
		assert.Equal(t, "Bearer t1", r.Header.Get("Authorization"))
		w.Write([]byte(`[
			{"id":10001,"totalAmount":1199.98,"status":"PAID","paymentMethod":"credit_card",
			 "shippingAddress":"1 Main St","createdAt":"2026-08-29T10:00:00",
			 "items":[{"productId":2,"productName":"Smartphone","price":599.99,"quantity":2}]}
		]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	orders, err := client.FetchMyOrders(context.Background(), "t1")

	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "10001", orders[0].ID)
	assert.Equal(t, "PAID", orders[0].Status)
	require.Len(t, orders[0].Items, 1)
	assert.Equal(t, int64(2), orders[0].Items[0].ProductID)
}

func sampleOrderRequest() domain.OrderRequest {
	smartphone := domain.Product{ID: 2, Name: "Smartphone"}
	return domain.OrderRequest{
		PaymentMethod:   "credit_card",
		ShippingAddress: "1 Main St",
		Items: []domain.OrderItem{
			{
				ProductID:   smartphone.ID,
				ProductName: smartphone.Name,
				Price:       decimal.RequireFromString("599.99"),
				Quantity:    2,
			},
		},
	}
}
