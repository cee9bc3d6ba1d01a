package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/sportshop/storefront/internal/domain"
)

type Repositories struct {
	Products      *ProductRepository
	Transactions  *TransactionRepository
	Registrations *EventRegistrationRepository
}

func NewRepositories() *Repositories {
	return &Repositories{
		Products:      &ProductRepository{byID: map[string]domain.Product{}},
		Transactions:  &TransactionRepository{},
		Registrations: &EventRegistrationRepository{},
	}
}

type ProductRepository struct {
	mu    sync.Mutex
	byID  map[string]domain.Product
	order []string
}

func (r *ProductRepository) Seed(_ context.Context, rows []domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range rows {
		if _, ok := r.byID[row.ProductID]; !ok {
			r.order = append(r.order, row.ProductID)
		}
		r.byID[row.ProductID] = row
	}
	return nil
}

func (r *ProductRepository) List(_ context.Context) ([]domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Product, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out, nil
}

func (r *ProductRepository) ListByCategory(_ context.Context, category string) ([]domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Product{}
	for _, id := range r.order {
		if strings.EqualFold(r.byID[id].Category, category) {
			out = append(out, r.byID[id])
		}
	}
	return out, nil
}

func (r *ProductRepository) GetByID(_ context.Context, productID string) (domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.byID[productID]
	if !ok {
		return domain.Product{}, domain.ErrNotFound
	}
	return row, nil
}

func (r *ProductRepository) Categories(_ context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := map[string]bool{}
	out := []string{}
	for _, row := range r.byID {
		if !seen[row.Category] {
			seen[row.Category] = true
			out = append(out, row.Category)
		}
	}
	sort.Strings(out)
	return out, nil
}

type TransactionRepository struct {
	mu   sync.Mutex
	rows []domain.Transaction
}

func (r *TransactionRepository) Append(_ context.Context, row domain.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = append(r.rows, row)
	return nil
}

func (r *TransactionRepository) List(_ context.Context) ([]domain.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Transaction, len(r.rows))
	copy(out, r.rows)
	return out, nil
}

type EventRegistrationRepository struct {
	mu   sync.Mutex
	rows []domain.EventRegistration
}

func (r *EventRegistrationRepository) Append(_ context.Context, row domain.EventRegistration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = append(r.rows, row)
	return nil
}

func (r *EventRegistrationRepository) List(_ context.Context) ([]domain.EventRegistration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.EventRegistration, len(r.rows))
	copy(out, r.rows)
	return out, nil
}
