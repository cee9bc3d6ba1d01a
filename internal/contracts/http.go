package contracts

import (
	"encoding/json"

	"github.com/sportshop/storefront/internal/money"
)

type SuccessResponse struct {
	Status string `json:"status"`
	Data   any    `json:"data,omitempty"`
}

type ErrorResponse struct {
	Status  string `json:"status"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

type InitTrackingRequest struct {
	AdmitadUID string `json:"admitad_uid"`
	PID        string `json:"pid"`
	UTMSource  string `json:"utm_source"`
	GCLID      string `json:"gclid"`
	FBCLID     string `json:"fbclid"`
}

type TrackingCartItem struct {
	ID       string        `json:"id"`
	Price    money.Decimal `json:"price"`
	Quantity int           `json:"quantity"`
	SKU      string        `json:"sku,omitempty"`
}

// TrackConversionRequest is the payload sent by the client tracker. Field
// names are accepted in both snake_case and camelCase because deployed
// tracker versions differ in which convention they emit.
type TrackConversionRequest struct {
	OrderID     string
	OrderAmount money.Decimal
	PaymentType string
	Items       []TrackingCartItem
	ActionCode  string
	TariffCodes []string
	Promocode   string
	Currency    string
}

func (r *TrackConversionRequest) UnmarshalJSON(raw []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return err
	}
	pick := func(dst any, keys ...string) error {
		for _, key := range keys {
			if v, ok := fields[key]; ok {
				return json.Unmarshal(v, dst)
			}
		}
		return nil
	}
	if err := pick(&r.OrderID, "order_id", "orderId"); err != nil {
		return err
	}
	if err := pick(&r.OrderAmount, "order_amount", "orderAmount"); err != nil {
		return err
	}
	if err := pick(&r.PaymentType, "payment_type", "paymentType"); err != nil {
		return err
	}
	if err := pick(&r.Items, "items"); err != nil {
		return err
	}
	if err := pick(&r.ActionCode, "action_code", "actionCode"); err != nil {
		return err
	}
	if err := pick(&r.TariffCodes, "tariff_codes", "tariffCodes"); err != nil {
		return err
	}
	if err := pick(&r.Promocode, "promocode", "promoCode", "promo_code"); err != nil {
		return err
	}
	return pick(&r.Currency, "currency")
}

type OrderItemRequest struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Price    money.Decimal `json:"price"`
	Quantity int           `json:"quantity"`
}

type CardDetailsRequest struct {
	CardNumber string `json:"card_number"`
	ExpiryDate string `json:"expiry_date"`
	CVV        string `json:"cvv"`
	OwnerName  string `json:"owner_name"`
}

type CreateOrderRequest struct {
	UserName      string              `json:"user_name"`
	UserEmail     string              `json:"user_email"`
	PaymentMethod string              `json:"payment_method"`
	Items         []OrderItemRequest  `json:"items"`
	TotalAmount   money.Decimal       `json:"total_amount"`
	CardDetails   *CardDetailsRequest `json:"card_details,omitempty"`
}

type CreateOrderResponse struct {
	OrderID     string        `json:"order_id"`
	TotalAmount money.Decimal `json:"total_amount"`
	PaymentRef  string        `json:"payment_ref,omitempty"`
}

type EventRegistrationRequest struct {
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`
	EventName string `json:"event_name"`
}

type EventRegistrationResponse struct {
	RegistrationID string `json:"registration_id"`
	UserName       string `json:"user_name"`
	EventName      string `json:"event_name"`
}

type TransactionResponse struct {
	TransactionID string        `json:"transaction_id"`
	OrderID       string        `json:"order_id"`
	PaymentRef    string        `json:"payment_ref,omitempty"`
	UserEmail     string        `json:"user_email"`
	Amount        money.Decimal `json:"amount"`
	PaymentMethod string        `json:"payment_method"`
	CreatedAt     string        `json:"created_at"`
}
