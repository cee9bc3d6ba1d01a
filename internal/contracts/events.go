package contracts

// Analytics event payloads published to the event stream. Amounts are
// decimal strings to keep the wire format consistent with the postback
// protocol.

type OrderPlacedEvent struct {
	OrderID       string `json:"order_id"`
	UserEmail     string `json:"user_email"`
	Amount        string `json:"amount"`
	PaymentMethod string `json:"payment_method"`
	OccurredAt    string `json:"occurred_at"`
}

type EventRegisteredEvent struct {
	RegistrationID string `json:"registration_id"`
	OrderID        string `json:"order_id"`
	EventName      string `json:"event_name"`
	OccurredAt     string `json:"occurred_at"`
}

type ConversionDecidedEvent struct {
	OrderID    string `json:"order_id"`
	Attributed bool   `json:"attributed"`
	Reason     string `json:"reason"`
	Source     string `json:"source,omitempty"`
	OccurredAt string `json:"occurred_at"`
}
