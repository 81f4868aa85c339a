package domain

import "github.com/shopspring/decimal"

// Product is a catalog entry. Products are immutable once fetched;
// the catalog cache owns them.
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
}
