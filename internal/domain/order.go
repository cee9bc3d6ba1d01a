package domain

import (
	"time"

	"github.com/sportshop/storefront/internal/money"
)

type OrderItem struct {
	ProductID string        `json:"product_id"`
	Name      string        `json:"name"`
	Price     money.Decimal `json:"price"`
	Quantity  int           `json:"quantity"`
}

type CardDetails struct {
	Number     string `json:"card_number"`
	ExpiryDate string `json:"expiry_date"`
	CVV        string `json:"cvv"`
	OwnerName  string `json:"owner_name"`
}

// Transaction is the append-only record written for every completed order
// and event registration. PaymentRef carries the simulated bank reference
// and stays empty for offline payment methods.
type Transaction struct {
	TransactionID string        `json:"transaction_id"`
	OrderID       string        `json:"order_id"`
	PaymentRef    string        `json:"payment_ref,omitempty"`
	UserEmail     string        `json:"user_email"`
	Amount        money.Decimal `json:"amount"`
	PaymentMethod string        `json:"payment_method"`
	CreatedAt     time.Time     `json:"created_at"`
}

type EventRegistration struct {
	RegistrationID string    `json:"registration_id"`
	UserName       string    `json:"user_name"`
	UserEmail      string    `json:"user_email"`
	EventName      string    `json:"event_name"`
	CreatedAt      time.Time `json:"created_at"`
}
