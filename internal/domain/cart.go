package domain

import "github.com/shopspring/decimal"

// CartItem is one product's accumulated quantity in the cart. The product
// fields are embedded so the persisted snapshot carries them flattened,
// matching the stored cart format. Quantity is always >= 1; removal deletes
// the line instead of zeroing it.
type CartItem struct {
	Product
	Quantity int `json:"quantity"`
}

func (i CartItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
