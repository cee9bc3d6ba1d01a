package domain

import "github.com/sportshop/storefront/internal/money"

type Product struct {
	ProductID   string        `json:"product_id"`
	Name        string        `json:"name"`
	Category    string        `json:"category"`
	Description string        `json:"description"`
	Price       money.Decimal `json:"price"`
}
