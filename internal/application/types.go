package application

import (
	"time"

	"github.com/sportshop/storefront/internal/domain"
	"github.com/sportshop/storefront/internal/money"
	"github.com/sportshop/storefront/internal/ports"
)

const (
	SourceMatchPrefix = "prefix"
	SourceMatchExact  = "exact"
)

type Config struct {
	ServiceName string

	PostbackURL    string
	CampaignCode   string
	PostbackKey    string
	NetworkChannel string

	CookieAffiliateUID string
	CookiePublisherID  string
	CookieLastSource   string
	CookieLifetime     time.Duration

	DefaultSaleActionCode string
	DefaultLeadActionCode string
	DefaultTariffCode     string
	DefaultCurrency       string

	// SourceMatchMode selects how the last-source cookie is compared against
	// NetworkChannel when deciding attribution: "prefix" or "exact".
	SourceMatchMode string

	TestCard domain.CardDetails
}

type InitVisitInput struct {
	AffiliateUID    string
	PublisherID     string
	UTMSource       string
	GoogleClickID   string
	FacebookClickID string
}

// CookieSpec describes one first-party cookie the HTTP layer should persist.
type CookieSpec struct {
	Name   string
	Value  string
	MaxAge time.Duration
}

type TrackConversionResult struct {
	Scheduled bool
	Reason    domain.AttributionReason
	Source    string
}

type OrderItemInput struct {
	ProductID string
	Name      string
	Price     money.Decimal
	Quantity  int
}

type PlaceOrderInput struct {
	UserName      string
	UserEmail     string
	PaymentMethod string
	Items         []OrderItemInput
	TotalAmount   money.Decimal
	Card          *domain.CardDetails
}

type PlaceOrderResult struct {
	OrderID     string
	TotalAmount money.Decimal
	PaymentRef  string
}

type RegisterEventInput struct {
	UserName  string
	UserEmail string
	EventName string
}

type RegisterEventResult struct {
	RegistrationID string
	UserName       string
	EventName      string
}

type Service struct {
	cfg Config

	products      ports.ProductRepository
	transactions  ports.TransactionRepository
	registrations ports.EventRegistrationRepository

	analytics ports.AnalyticsPublisher
	postbacks ports.PostbackDispatcher

	nowFn func() time.Time
}

type Dependencies struct {
	Config Config

	Products      ports.ProductRepository
	Transactions  ports.TransactionRepository
	Registrations ports.EventRegistrationRepository

	Analytics ports.AnalyticsPublisher
	Postbacks ports.PostbackDispatcher
}

func NewService(deps Dependencies) *Service {
	cfg := deps.Config
	if cfg.ServiceName == "" {
		cfg.ServiceName = "storefront"
	}
	if cfg.PostbackURL == "" {
		cfg.PostbackURL = "https://ad.admitad.com/tt"
	}
	if cfg.NetworkChannel == "" {
		cfg.NetworkChannel = "admitad"
	}
	if cfg.CookieAffiliateUID == "" {
		cfg.CookieAffiliateUID = "_adm_aid"
	}
	if cfg.CookiePublisherID == "" {
		cfg.CookiePublisherID = "_pid"
	}
	if cfg.CookieLastSource == "" {
		cfg.CookieLastSource = "_last_source"
	}
	if cfg.CookieLifetime <= 0 {
		cfg.CookieLifetime = 90 * 24 * time.Hour
	}
	if cfg.DefaultSaleActionCode == "" {
		cfg.DefaultSaleActionCode = "1"
	}
	if cfg.DefaultLeadActionCode == "" {
		cfg.DefaultLeadActionCode = "2"
	}
	if cfg.DefaultTariffCode == "" {
		cfg.DefaultTariffCode = "1"
	}
	if cfg.DefaultCurrency == "" {
		cfg.DefaultCurrency = "RUB"
	}
	if cfg.SourceMatchMode != SourceMatchExact {
		cfg.SourceMatchMode = SourceMatchPrefix
	}
	return &Service{
		cfg:           cfg,
		products:      deps.Products,
		transactions:  deps.Transactions,
		registrations: deps.Registrations,
		analytics:     deps.Analytics,
		postbacks:     deps.Postbacks,
		nowFn:         func() time.Time { return time.Now().UTC() },
	}
}
