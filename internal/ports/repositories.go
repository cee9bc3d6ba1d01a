package ports

import (
	"context"

	"github.com/sportshop/storefront/internal/domain"
)

type ProductRepository interface {
	List(ctx context.Context) ([]domain.Product, error)
	ListByCategory(ctx context.Context, category string) ([]domain.Product, error)
	GetByID(ctx context.Context, productID string) (domain.Product, error)
	Categories(ctx context.Context) ([]string, error)
	Seed(ctx context.Context, rows []domain.Product) error
}

type TransactionRepository interface {
	Append(ctx context.Context, row domain.Transaction) error
	List(ctx context.Context) ([]domain.Transaction, error)
}

type EventRegistrationRepository interface {
	Append(ctx context.Context, row domain.EventRegistration) error
	List(ctx context.Context) ([]domain.EventRegistration, error)
}
