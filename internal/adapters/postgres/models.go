package postgres

import (
	"time"

	"github.com/sportshop/storefront/internal/domain"
	"github.com/sportshop/storefront/internal/money"
)

type productModel struct {
	ProductID   string `gorm:"column:product_id;primaryKey"`
	Name        string `gorm:"column:name"`
	Category    string `gorm:"column:category"`
	Description string `gorm:"column:description"`
	Price       string `gorm:"column:price;type:numeric(12,2)"`
}

func (productModel) TableName() string { return "products" }

type transactionModel struct {
	TransactionID string    `gorm:"column:transaction_id;primaryKey"`
	OrderID       string    `gorm:"column:order_id"`
	PaymentRef    string    `gorm:"column:payment_ref"`
	UserEmail     string    `gorm:"column:user_email"`
	Amount        string    `gorm:"column:amount;type:numeric(12,2)"`
	PaymentMethod string    `gorm:"column:payment_method"`
	CreatedAt     time.Time `gorm:"column:created_at"`
}

func (transactionModel) TableName() string { return "transactions" }

type registrationModel struct {
	RegistrationID string    `gorm:"column:registration_id;primaryKey"`
	UserName       string    `gorm:"column:user_name"`
	UserEmail      string    `gorm:"column:user_email"`
	EventName      string    `gorm:"column:event_name"`
	CreatedAt      time.Time `gorm:"column:created_at"`
}

func (registrationModel) TableName() string { return "event_registrations" }

func toDomainProduct(row productModel) (domain.Product, error) {
	price, err := money.Parse(row.Price)
	if err != nil {
		return domain.Product{}, err
	}
	return domain.Product{
		ProductID:   row.ProductID,
		Name:        row.Name,
		Category:    row.Category,
		Description: row.Description,
		Price:       price,
	}, nil
}

func toProductModel(row domain.Product) productModel {
	return productModel{
		ProductID:   row.ProductID,
		Name:        row.Name,
		Category:    row.Category,
		Description: row.Description,
		Price:       row.Price.String(),
	}
}

func toDomainTransaction(row transactionModel) (domain.Transaction, error) {
	amount, err := money.Parse(row.Amount)
	if err != nil {
		return domain.Transaction{}, err
	}
	return domain.Transaction{
		TransactionID: row.TransactionID,
		OrderID:       row.OrderID,
		PaymentRef:    row.PaymentRef,
		UserEmail:     row.UserEmail,
		Amount:        amount,
		PaymentMethod: row.PaymentMethod,
		CreatedAt:     row.CreatedAt,
	}, nil
}

func toTransactionModel(row domain.Transaction) transactionModel {
	return transactionModel{
		TransactionID: row.TransactionID,
		OrderID:       row.OrderID,
		PaymentRef:    row.PaymentRef,
		UserEmail:     row.UserEmail,
		Amount:        row.Amount.String(),
		PaymentMethod: row.PaymentMethod,
		CreatedAt:     row.CreatedAt,
	}
}

func toRegistrationModel(row domain.EventRegistration) registrationModel {
	return registrationModel{
		RegistrationID: row.RegistrationID,
		UserName:       row.UserName,
		UserEmail:      row.UserEmail,
		EventName:      row.EventName,
		CreatedAt:      row.CreatedAt,
	}
}

func toDomainRegistration(row registrationModel) domain.EventRegistration {
	return domain.EventRegistration{
		RegistrationID: row.RegistrationID,
		UserName:       row.UserName,
		UserEmail:      row.UserEmail,
		EventName:      row.EventName,
		CreatedAt:      row.CreatedAt,
	}
}
