package application

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sportshop/storefront/internal/contracts"
	"github.com/sportshop/storefront/internal/domain"
	"github.com/sportshop/storefront/internal/money"
)

const paymentMethodRegistration = "event_registration"

// PlaceOrder runs the full checkout cycle: server-side total revalidation,
// simulated card processing, and the transaction append. The client's total
// is never trusted; the decimal sum over items is authoritative.
func (s *Service) PlaceOrder(ctx context.Context, in PlaceOrderInput) (PlaceOrderResult, error) {
	if err := validateOrderInput(in); err != nil {
		return PlaceOrderResult{}, err
	}

	serverTotal := money.Zero()
	for _, item := range in.Items {
		serverTotal = serverTotal.Add(item.Price.MulInt(int64(item.Quantity)))
	}
	if serverTotal.Cmp(in.TotalAmount) != 0 {
		return PlaceOrderResult{}, domain.ErrOrderTotalMismatch
	}

	paymentRef := ""
	if in.PaymentMethod == "card" {
		if in.Card == nil {
			return PlaceOrderResult{}, domain.ErrCardRequired
		}
		ref, err := s.simulateCardProcessing(*in.Card)
		if err != nil {
			return PlaceOrderResult{}, err
		}
		paymentRef = ref
	}

	now := s.nowFn()
	orderID := "ord_" + uuid.NewString()
	txn := domain.Transaction{
		TransactionID: "txn_" + uuid.NewString(),
		OrderID:       orderID,
		PaymentRef:    paymentRef,
		UserEmail:     in.UserEmail,
		Amount:        serverTotal,
		PaymentMethod: in.PaymentMethod,
		CreatedAt:     now,
	}
	if err := s.transactions.Append(ctx, txn); err != nil {
		return PlaceOrderResult{}, err
	}

	s.publishOrderPlaced(ctx, txn)
	return PlaceOrderResult{OrderID: orderID, TotalAmount: serverTotal, PaymentRef: paymentRef}, nil
}

// RegisterEvent records an event signup. Registrations are zero-amount
// transactions so the transaction log stays the single audit trail.
func (s *Service) RegisterEvent(ctx context.Context, in RegisterEventInput) (RegisterEventResult, error) {
	if strings.TrimSpace(in.UserName) == "" {
		return RegisterEventResult{}, fmt.Errorf("%w: user_name is required", domain.ErrInvalidInput)
	}
	if !isPlausibleEmail(in.UserEmail) {
		return RegisterEventResult{}, fmt.Errorf("%w: user_email is invalid", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(in.EventName) == "" {
		return RegisterEventResult{}, fmt.Errorf("%w: event_name is required", domain.ErrInvalidInput)
	}

	now := s.nowFn()
	registrationID := "reg_" + uuid.NewString()
	row := domain.EventRegistration{
		RegistrationID: registrationID,
		UserName:       strings.TrimSpace(in.UserName),
		UserEmail:      strings.TrimSpace(in.UserEmail),
		EventName:      strings.TrimSpace(in.EventName),
		CreatedAt:      now,
	}
	if err := s.registrations.Append(ctx, row); err != nil {
		return RegisterEventResult{}, err
	}

	txn := domain.Transaction{
		TransactionID: "txn_" + uuid.NewString(),
		OrderID:       registrationID,
		UserEmail:     row.UserEmail,
		Amount:        money.Zero(),
		PaymentMethod: paymentMethodRegistration,
		CreatedAt:     now,
	}
	if err := s.transactions.Append(ctx, txn); err != nil {
		return RegisterEventResult{}, err
	}

	s.publishEventRegistered(ctx, row)
	return RegisterEventResult{RegistrationID: registrationID, UserName: row.UserName, EventName: row.EventName}, nil
}

func (s *Service) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	return s.transactions.List(ctx)
}

func (s *Service) simulateCardProcessing(card domain.CardDetails) (string, error) {
	test := s.cfg.TestCard
	if card.Number == test.Number && card.ExpiryDate == test.ExpiryDate && card.CVV == test.CVV && card.OwnerName == test.OwnerName {
		return "bank_" + uuid.NewString(), nil
	}
	return "", domain.ErrPaymentDeclined
}

func validateOrderInput(in PlaceOrderInput) error {
	if strings.TrimSpace(in.UserName) == "" {
		return fmt.Errorf("%w: user_name is required", domain.ErrInvalidInput)
	}
	if !isPlausibleEmail(in.UserEmail) {
		return fmt.Errorf("%w: user_email is invalid", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(in.PaymentMethod) == "" {
		return fmt.Errorf("%w: payment_method is required", domain.ErrInvalidInput)
	}
	if len(in.Items) == 0 {
		return fmt.Errorf("%w: order must contain at least one item", domain.ErrInvalidInput)
	}
	for i, item := range in.Items {
		if strings.TrimSpace(item.ProductID) == "" {
			return fmt.Errorf("%w: items[%d].id is required", domain.ErrInvalidInput, i)
		}
		if item.Quantity <= 0 {
			return fmt.Errorf("%w: items[%d].quantity must be positive", domain.ErrInvalidInput, i)
		}
		if item.Price.IsNegative() {
			return fmt.Errorf("%w: items[%d].price must not be negative", domain.ErrInvalidInput, i)
		}
	}
	return nil
}

func isPlausibleEmail(email string) bool {
	email = strings.TrimSpace(email)
	at := strings.Index(email, "@")
	return at > 0 && at < len(email)-1 && !strings.Contains(email, " ")
}

func (s *Service) publishOrderPlaced(ctx context.Context, txn domain.Transaction) {
	if s.analytics == nil {
		return
	}
	payload, _ := json.Marshal(contracts.OrderPlacedEvent{
		OrderID:       txn.OrderID,
		UserEmail:     txn.UserEmail,
		Amount:        txn.Amount.String(),
		PaymentMethod: txn.PaymentMethod,
		OccurredAt:    txn.CreatedAt.Format(time.RFC3339),
	})
	_ = s.analytics.Publish(ctx, domain.EventOrderPlaced, payload, txn.OrderID)
}

func (s *Service) publishEventRegistered(ctx context.Context, row domain.EventRegistration) {
	if s.analytics == nil {
		return
	}
	payload, _ := json.Marshal(contracts.EventRegisteredEvent{
		RegistrationID: row.RegistrationID,
		OrderID:        row.RegistrationID,
		EventName:      row.EventName,
		OccurredAt:     row.CreatedAt.Format(time.RFC3339),
	})
	_ = s.analytics.Publish(ctx, domain.EventRegistrationCreated, payload, row.RegistrationID)
}
