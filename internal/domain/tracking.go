package domain

import "github.com/sportshop/storefront/internal/money"

// VisitContext is the ephemeral view of the tracking cookies recorded on a
// prior visit. Empty fields mean the cookie was never set.
type VisitContext struct {
	AffiliateUID string
	PublisherID  string
	LastSource   string
}

type ConversionItem struct {
	ProductID string
	Price     money.Decimal
	Quantity  int
	SKU       string
}

// ConversionEvent is one checkout or registration reported by the client
// tracker. Immutable once received.
type ConversionEvent struct {
	OrderID     string
	OrderAmount money.Decimal
	PaymentType string
	Items       []ConversionItem
	PromoCode   string
	ActionCode  string
	TariffCodes []string
	Currency    string
}

type AttributionReason string

const (
	ReasonCookie    AttributionReason = "COOKIE"
	ReasonPromoCode AttributionReason = "PROMO_CODE"
	ReasonNone      AttributionReason = "NONE"
)

type AttributionVerdict struct {
	Attributed       bool
	Reason           AttributionReason
	AttributedSource string
}

// PostbackRequest is the outbound server-to-server notification. Built at
// most once per conversion event; the send itself is best effort.
type PostbackRequest struct {
	URL     string
	Params  map[string]string
	OrderID string
}
