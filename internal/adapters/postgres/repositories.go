package postgres

import (
	"context"
	"errors"

	"github.com/sportshop/storefront/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repositories struct {
	Products      *ProductRepository
	Transactions  *TransactionRepository
	Registrations *EventRegistrationRepository
}

func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Products:      &ProductRepository{db: db},
		Transactions:  &TransactionRepository{db: db},
		Registrations: &EventRegistrationRepository{db: db},
	}
}

type ProductRepository struct {
	db *gorm.DB
}

// Seed upserts the catalog rows. Safe to run on every startup.
func (r *ProductRepository) Seed(ctx context.Context, rows []domain.Product) error {
	if len(rows) == 0 {
		return nil
	}
	models := make([]productModel, 0, len(rows))
	for _, row := range rows {
		models = append(models, toProductModel(row))
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "product_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "category", "description", "price"}),
	}).Create(&models).Error
}

func (r *ProductRepository) List(ctx context.Context) ([]domain.Product, error) {
	var models []productModel
	if err := r.db.WithContext(ctx).Order("product_id").Find(&models).Error; err != nil {
		return nil, err
	}
	return mapProducts(models)
}

func (r *ProductRepository) ListByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	var models []productModel
	if err := r.db.WithContext(ctx).Where("lower(category) = lower(?)", category).Order("product_id").Find(&models).Error; err != nil {
		return nil, err
	}
	return mapProducts(models)
}

func (r *ProductRepository) GetByID(ctx context.Context, productID string) (domain.Product, error) {
	var model productModel
	if err := r.db.WithContext(ctx).Where("product_id = ?", productID).Take(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Product{}, domain.ErrNotFound
		}
		return domain.Product{}, err
	}
	return toDomainProduct(model)
}

func (r *ProductRepository) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.db.WithContext(ctx).Model(&productModel{}).
		Distinct("category").Order("category").Pluck("category", &categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func mapProducts(models []productModel) ([]domain.Product, error) {
	out := make([]domain.Product, 0, len(models))
	for _, model := range models {
		row, err := toDomainProduct(model)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, nil
}

type TransactionRepository struct {
	db *gorm.DB
}

func (r *TransactionRepository) Append(ctx context.Context, row domain.Transaction) error {
	model := toTransactionModel(row)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrConflict
		}
		return err
	}
	return nil
}

func (r *TransactionRepository) List(ctx context.Context) ([]domain.Transaction, error) {
	var models []transactionModel
	if err := r.db.WithContext(ctx).Order("created_at").Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Transaction, 0, len(models))
	for _, model := range models {
		row, err := toDomainTransaction(model)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, nil
}

type EventRegistrationRepository struct {
	db *gorm.DB
}

func (r *EventRegistrationRepository) Append(ctx context.Context, row domain.EventRegistration) error {
	model := toRegistrationModel(row)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrConflict
		}
		return err
	}
	return nil
}

func (r *EventRegistrationRepository) List(ctx context.Context) ([]domain.EventRegistration, error) {
	var models []registrationModel
	if err := r.db.WithContext(ctx).Order("created_at").Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]domain.EventRegistration, 0, len(models))
	for _, model := range models {
		out = append(out, toDomainRegistration(model))
	}
	return out, nil
}
