package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/techshop/storefront/internal/domain"
)

// SampleProducts is the hardcoded catalog served when the remote fetch
// fails. The UI must never be left with zero products, so this list is
// embedded rather than fetched.
func SampleProducts() []domain.Product {
	return []domain.Product{
		{ID: 1, Name: "Wireless Headphones", Price: decimal.RequireFromString("99.99"), Description: "High-quality wireless headphones", Image: "🎧"},
		{ID: 2, Name: "Smartphone", Price: decimal.RequireFromString("599.99"), Description: "Latest smartphone with advanced features", Image: "📱"},
		{ID: 3, Name: "Laptop", Price: decimal.RequireFromString("999.99"), Description: "Powerful laptop for work and gaming", Image: "💻"},
		{ID: 4, Name: "Smart Watch", Price: decimal.RequireFromString("199.99"), Description: "Feature-rich smartwatch", Image: "⌚"},
		{ID: 5, Name: "Tablet", Price: decimal.RequireFromString("399.99"), Description: "Versatile tablet for entertainment", Image: "📱"},
		{ID: 6, Name: "Gaming Console", Price: decimal.RequireFromString("499.99"), Description: "Next-gen gaming console", Image: "🎮"},
	}
}
