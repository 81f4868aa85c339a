package domain

import "github.com/shopspring/decimal"

// OrderItem is one line of an order payload, snapshotted from the cart at
// submit time.
type OrderItem struct {
	ProductID   int64           `json:"productId"`
	ProductName string          `json:"productName"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
}

// OrderRequest is the payload sent to the remote order authority.
type OrderRequest struct {
	PaymentMethod   string      `json:"paymentMethod"`
	ShippingAddress string      `json:"shippingAddress"`
	Items           []OrderItem `json:"items"`
}

// OrderResult is what the remote side returns for a created order. It is not
// persisted locally beyond the success confirmation.
type OrderResult struct {
	ID          string
	TotalAmount decimal.Decimal
}

// OrderSummary is a past order as returned by the order history endpoint.
type OrderSummary struct {
	ID              string
	TotalAmount     decimal.Decimal
	Status          string
	PaymentMethod   string
	ShippingAddress string
	CreatedAt       string
	Items           []OrderItem
}
