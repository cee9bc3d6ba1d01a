package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/sportshop/storefront/internal/domain"
)

func (s *Service) ListCategories(ctx context.Context) ([]string, error) {
	return s.products.Categories(ctx)
}

func (s *Service) ListProducts(ctx context.Context, category string) ([]domain.Product, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return s.products.List(ctx)
	}
	return s.products.ListByCategory(ctx, category)
}

func (s *Service) GetProduct(ctx context.Context, productID string) (domain.Product, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return domain.Product{}, fmt.Errorf("%w: product id is required", domain.ErrInvalidInput)
	}
	return s.products.GetByID(ctx, productID)
}
