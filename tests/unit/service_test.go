package unit

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	eventadapter "github.com/sportshop/storefront/internal/adapters/events"
	"github.com/sportshop/storefront/internal/adapters/memory"
	"github.com/sportshop/storefront/internal/application"
	"github.com/sportshop/storefront/internal/domain"
	"github.com/sportshop/storefront/internal/money"
)

type captureDispatcher struct {
	mu       sync.Mutex
	requests []domain.PostbackRequest
}

func (d *captureDispatcher) Dispatch(req domain.PostbackRequest) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.requests = append(d.requests, req)
}

func (d *captureDispatcher) all() []domain.PostbackRequest {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]domain.PostbackRequest, len(d.requests))
	copy(out, d.requests)
	return out
}

func newService(cfg application.Config) (*application.Service, *captureDispatcher, *eventadapter.MemoryPublisher) {
	if cfg.CampaignCode == "" {
		cfg.CampaignCode = "9001234567"
	}
	if cfg.PostbackKey == "" {
		cfg.PostbackKey = "test-postback-key"
	}
	if cfg.TestCard.Number == "" {
		cfg.TestCard = domain.CardDetails{Number: "1234567812345678", ExpiryDate: "12/28", CVV: "123", OwnerName: "IVAN IVANOV"}
	}
	repos := memory.NewRepositories()
	dispatcher := &captureDispatcher{}
	pub := eventadapter.NewMemoryPublisher()
	svc := application.NewService(application.Dependencies{
		Config:        cfg,
		Products:      repos.Products,
		Transactions:  repos.Transactions,
		Registrations: repos.Registrations,
		Analytics:     pub,
		Postbacks:     dispatcher,
	})
	return svc, dispatcher, pub
}

func mustMoney(t *testing.T, s string) money.Decimal {
	t.Helper()
	d, err := money.Parse(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return d
}

func TestCookieAttributionAggregateMode(t *testing.T) {
	svc, dispatcher, _ := newService(application.Config{})
	visit := domain.VisitContext{AffiliateUID: "abc123", LastSource: "admitad"}
	event := domain.ConversionEvent{OrderID: "1", OrderAmount: mustMoney(t, "100"), PaymentType: "sale"}

	out, err := svc.TrackConversion(context.Background(), visit, event)
	if err != nil {
		t.Fatalf("track conversion: %v", err)
	}
	if !out.Scheduled || out.Reason != domain.ReasonCookie {
		t.Fatalf("expected scheduled cookie attribution, got %+v", out)
	}
	reqs := dispatcher.all()
	if len(reqs) != 1 {
		t.Fatalf("expected 1 postback, got %d", len(reqs))
	}
	params := reqs[0].Params
	if params["price"] != "100" {
		t.Fatalf("expected aggregate price 100, got %q", params["price"])
	}
	if params["tariff_code"] != "1" {
		t.Fatalf("expected default tariff code, got %q", params["tariff_code"])
	}
	if params["uid"] != "abc123" {
		t.Fatalf("expected uid from cookie, got %q", params["uid"])
	}
	if _, ok := params["_ps"]; ok {
		t.Fatalf("aggregate mode must not carry a basket")
	}
}

func TestDeduplicatedWhenLastSourceIsNotNetwork(t *testing.T) {
	svc, dispatcher, pub := newService(application.Config{})
	visit := domain.VisitContext{AffiliateUID: "abc123", LastSource: "google"}
	event := domain.ConversionEvent{OrderID: "1", OrderAmount: mustMoney(t, "100"), PaymentType: "sale"}

	out, err := svc.TrackConversion(context.Background(), visit, event)
	if err != nil {
		t.Fatalf("track conversion: %v", err)
	}
	if out.Scheduled {
		t.Fatalf("expected deduplication, got scheduled")
	}
	if out.Source != "google" {
		t.Fatalf("expected attributed source google, got %q", out.Source)
	}
	if len(dispatcher.all()) != 0 {
		t.Fatalf("no postback may be dispatched on deduplication")
	}
	if len(pub.ByType(domain.EventConversionDeduplicated)) != 1 {
		t.Fatalf("expected deduplicated analytics event")
	}
}

func TestPromoCodeOverridesMissingCookies(t *testing.T) {
	svc, dispatcher, _ := newService(application.Config{})
	event := domain.ConversionEvent{OrderID: "77", OrderAmount: mustMoney(t, "250.50"), PaymentType: "sale", PromoCode: "SALE10"}

	out, err := svc.TrackConversion(context.Background(), domain.VisitContext{}, event)
	if err != nil {
		t.Fatalf("track conversion: %v", err)
	}
	if !out.Scheduled || out.Reason != domain.ReasonPromoCode {
		t.Fatalf("expected promo code attribution, got %+v", out)
	}
	reqs := dispatcher.all()
	if len(reqs) != 1 {
		t.Fatalf("expected 1 postback, got %d", len(reqs))
	}
	if reqs[0].Params["promocode"] != "SALE10" {
		t.Fatalf("expected promocode param, got %q", reqs[0].Params["promocode"])
	}
}

func TestBlankPromoCodeDoesNotAttribute(t *testing.T) {
	svc, dispatcher, _ := newService(application.Config{})
	event := domain.ConversionEvent{OrderID: "78", OrderAmount: mustMoney(t, "10"), PaymentType: "sale", PromoCode: "   "}

	out, err := svc.TrackConversion(context.Background(), domain.VisitContext{}, event)
	if err != nil {
		t.Fatalf("track conversion: %v", err)
	}
	if out.Scheduled {
		t.Fatalf("whitespace promo code must not attribute")
	}
	if len(dispatcher.all()) != 0 {
		t.Fatalf("no postback expected")
	}
}

func decodeBasket(t *testing.T, raw string) map[string][]string {
	t.Helper()
	var basket map[string][]string
	if err := json.Unmarshal([]byte(raw), &basket); err != nil {
		t.Fatalf("decode basket: %v", err)
	}
	return basket
}

func TestItemizedBasketWithMatchingTariffCodes(t *testing.T) {
	svc, dispatcher, _ := newService(application.Config{})
	visit := domain.VisitContext{AffiliateUID: "abc123", LastSource: "admitad"}
	event := domain.ConversionEvent{
		OrderID:     "2",
		OrderAmount: mustMoney(t, "300"),
		PaymentType: "sale",
		TariffCodes: []string{"2", "3"},
		Items: []domain.ConversionItem{
			{ProductID: "p1", Price: mustMoney(t, "100.50"), Quantity: 2},
			{ProductID: "p2", Price: mustMoney(t, "99"), Quantity: 1},
		},
	}

	if _, err := svc.TrackConversion(context.Background(), visit, event); err != nil {
		t.Fatalf("track conversion: %v", err)
	}
	reqs := dispatcher.all()
	if len(reqs) != 1 {
		t.Fatalf("expected 1 postback, got %d", len(reqs))
	}
	params := reqs[0].Params
	if _, ok := params["price"]; ok {
		t.Fatalf("itemized mode must not carry a flat price")
	}
	basket := decodeBasket(t, params["_ps"])
	for _, key := range []string{"tariff_code", "position_id", "position_count", "price", "quantity", "product_id"} {
		if len(basket[key]) != 2 {
			t.Fatalf("basket array %q has length %d, want 2", key, len(basket[key]))
		}
	}
	if basket["tariff_code"][0] != "2" || basket["tariff_code"][1] != "3" {
		t.Fatalf("expected custom tariff codes, got %v", basket["tariff_code"])
	}
	if basket["position_id"][0] != "1" || basket["position_id"][1] != "2" {
		t.Fatalf("position ids must be 1-based, got %v", basket["position_id"])
	}
	if basket["position_count"][0] != "2" || basket["position_count"][1] != "2" {
		t.Fatalf("position_count must repeat item count, got %v", basket["position_count"])
	}
	if basket["price"][0] != "100.50" || basket["price"][1] != "99" {
		t.Fatalf("unexpected price encoding: %v", basket["price"])
	}
	if basket["quantity"][0] != "2" || basket["quantity"][1] != "1" {
		t.Fatalf("unexpected quantities: %v", basket["quantity"])
	}
}

func TestItemizedBasketTariffLengthMismatchFallsBack(t *testing.T) {
	svc, dispatcher, _ := newService(application.Config{})
	visit := domain.VisitContext{AffiliateUID: "abc123", LastSource: "admitad"}
	event := domain.ConversionEvent{
		OrderID:     "3",
		OrderAmount: mustMoney(t, "300"),
		PaymentType: "sale",
		TariffCodes: []string{"2"},
		Items: []domain.ConversionItem{
			{ProductID: "p1", Price: mustMoney(t, "100"), Quantity: 1},
			{ProductID: "p2", Price: mustMoney(t, "200"), Quantity: 1},
		},
	}

	if _, err := svc.TrackConversion(context.Background(), visit, event); err != nil {
		t.Fatalf("track conversion: %v", err)
	}
	basket := decodeBasket(t, dispatcher.all()[0].Params["_ps"])
	if basket["tariff_code"][0] != "1" || basket["tariff_code"][1] != "1" {
		t.Fatalf("partial tariff list must fall back to default for every position, got %v", basket["tariff_code"])
	}
}

func TestSourceMatchModes(t *testing.T) {
	event := domain.ConversionEvent{OrderID: "4", OrderAmount: mustMoney(t, "10"), PaymentType: "sale"}
	visit := domain.VisitContext{AffiliateUID: "abc123", LastSource: "admitad_sub1"}

	prefixSvc, _, _ := newService(application.Config{SourceMatchMode: application.SourceMatchPrefix})
	if v := prefixSvc.Decide(visit, event); !v.Attributed {
		t.Fatalf("prefix mode should match admitad_sub1")
	}

	exactSvc, _, _ := newService(application.Config{SourceMatchMode: application.SourceMatchExact})
	if v := exactSvc.Decide(visit, event); v.Attributed {
		t.Fatalf("exact mode should not match admitad_sub1")
	}
	if v := exactSvc.Decide(domain.VisitContext{AffiliateUID: "abc123", LastSource: "admitad"}, event); !v.Attributed {
		t.Fatalf("exact mode should match admitad")
	}
}

func TestConversionValidation(t *testing.T) {
	svc, dispatcher, _ := newService(application.Config{})
	cases := []struct {
		name  string
		event domain.ConversionEvent
	}{
		{"missing order id", domain.ConversionEvent{PaymentType: "sale"}},
		{"missing payment type", domain.ConversionEvent{OrderID: "1"}},
		{"zero quantity item", domain.ConversionEvent{OrderID: "1", PaymentType: "sale", Items: []domain.ConversionItem{{ProductID: "p1", Quantity: 0}}}},
		{"negative price item", domain.ConversionEvent{OrderID: "1", PaymentType: "sale", Items: []domain.ConversionItem{{ProductID: "p1", Quantity: 1, Price: mustMoney(t, "-1")}}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.TrackConversion(context.Background(), domain.VisitContext{AffiliateUID: "a", LastSource: "admitad"}, tc.event)
			if err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
	if len(dispatcher.all()) != 0 {
		t.Fatalf("invalid events must never reach the dispatcher")
	}
}

func TestInitializeVisitSourcePrecedence(t *testing.T) {
	svc, _, _ := newService(application.Config{})

	cookies := svc.InitializeVisit(application.InitVisitInput{AffiliateUID: "uid1", UTMSource: "newsletter", GoogleClickID: "g1", FacebookClickID: "f1"})
	if got := cookieByName(cookies, "_last_source"); got != "newsletter" {
		t.Fatalf("utm_source must win, got %q", got)
	}
	cookies = svc.InitializeVisit(application.InitVisitInput{GoogleClickID: "g1", FacebookClickID: "f1"})
	if got := cookieByName(cookies, "_last_source"); got != "advAutoMarkup" {
		t.Fatalf("gclid must map to canonical google label, got %q", got)
	}
	cookies = svc.InitializeVisit(application.InitVisitInput{FacebookClickID: "f1"})
	if got := cookieByName(cookies, "_last_source"); got != "facebook" {
		t.Fatalf("fbclid must map to facebook, got %q", got)
	}
	cookies = svc.InitializeVisit(application.InitVisitInput{AffiliateUID: "uid1"})
	if got := cookieByName(cookies, "_last_source"); got != "" {
		t.Fatalf("no source signal must leave the source cookie untouched, got %q", got)
	}
	if got := cookieByName(cookies, "_adm_aid"); got != "uid1" {
		t.Fatalf("affiliate uid cookie missing, got %q", got)
	}
}

func cookieByName(cookies []application.CookieSpec, name string) string {
	for _, c := range cookies {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

func TestPlaceOrderRejectsTotalMismatch(t *testing.T) {
	svc, _, _ := newService(application.Config{})
	_, err := svc.PlaceOrder(context.Background(), application.PlaceOrderInput{
		UserName:      "Anna",
		UserEmail:     "anna@example.com",
		PaymentMethod: "cash",
		Items: []application.OrderItemInput{
			{ProductID: "prod_1", Name: "Shoes", Price: mustMoney(t, "8500.00"), Quantity: 1},
		},
		TotalAmount: mustMoney(t, "9000.00"),
	})
	if err != domain.ErrOrderTotalMismatch {
		t.Fatalf("expected total mismatch, got %v", err)
	}
}

func TestPlaceOrderCardFlow(t *testing.T) {
	svc, _, pub := newService(application.Config{})
	in := application.PlaceOrderInput{
		UserName:      "Anna",
		UserEmail:     "anna@example.com",
		PaymentMethod: "card",
		Items: []application.OrderItemInput{
			{ProductID: "prod_1", Name: "Shoes", Price: mustMoney(t, "8500.00"), Quantity: 2},
		},
		TotalAmount: mustMoney(t, "17000.00"),
	}

	if _, err := svc.PlaceOrder(context.Background(), in); err != domain.ErrCardRequired {
		t.Fatalf("expected card required, got %v", err)
	}

	in.Card = &domain.CardDetails{Number: "0000", ExpiryDate: "01/20", CVV: "000", OwnerName: "X"}
	if _, err := svc.PlaceOrder(context.Background(), in); err != domain.ErrPaymentDeclined {
		t.Fatalf("expected declined, got %v", err)
	}

	in.Card = &domain.CardDetails{Number: "1234567812345678", ExpiryDate: "12/28", CVV: "123", OwnerName: "IVAN IVANOV"}
	out, err := svc.PlaceOrder(context.Background(), in)
	if err != nil {
		t.Fatalf("place order: %v", err)
	}
	if out.PaymentRef == "" {
		t.Fatalf("expected bank reference on card success")
	}
	if out.TotalAmount.Cmp(mustMoney(t, "17000.00")) != 0 {
		t.Fatalf("unexpected total %s", out.TotalAmount)
	}
	if len(pub.ByType(domain.EventOrderPlaced)) != 1 {
		t.Fatalf("expected order placed analytics event")
	}

	rows, err := svc.ListTransactions(context.Background())
	if err != nil {
		t.Fatalf("list transactions: %v", err)
	}
	if len(rows) != 1 || rows[0].OrderID != out.OrderID {
		t.Fatalf("expected one persisted transaction for %s, got %+v", out.OrderID, rows)
	}
}

func TestRegisterEventWritesZeroAmountTransaction(t *testing.T) {
	svc, _, pub := newService(application.Config{})
	out, err := svc.RegisterEvent(context.Background(), application.RegisterEventInput{
		UserName:  "Boris",
		UserEmail: "boris@example.com",
		EventName: "City Marathon",
	})
	if err != nil {
		t.Fatalf("register event: %v", err)
	}
	if out.RegistrationID == "" {
		t.Fatalf("expected registration id")
	}
	rows, err := svc.ListTransactions(context.Background())
	if err != nil {
		t.Fatalf("list transactions: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected one transaction, got %d", len(rows))
	}
	if !rows[0].Amount.IsZero() {
		t.Fatalf("registration transaction must be zero-amount, got %s", rows[0].Amount)
	}
	if rows[0].PaymentMethod != "event_registration" {
		t.Fatalf("unexpected payment method %q", rows[0].PaymentMethod)
	}
	if len(pub.ByType(domain.EventRegistrationCreated)) != 1 {
		t.Fatalf("expected registration analytics event")
	}
}

func TestCatalogFilteringAndLookup(t *testing.T) {
	seed := []domain.Product{
		{ProductID: "prod_1", Name: "Shoes", Category: "Shoes", Price: mustMoney(t, "8500.00")},
		{ProductID: "prod_2", Name: "Tracker", Category: "Gadgets", Price: mustMoney(t, "3200.00")},
		{ProductID: "prod_3", Name: "Shirt", Category: "Apparel", Price: mustMoney(t, "2500.00")},
	}
	repos := memory.NewRepositories()
	if err := repos.Products.Seed(context.Background(), seed); err != nil {
		t.Fatalf("seed: %v", err)
	}
	catalogSvc := application.NewService(application.Dependencies{
		Config:        application.Config{CampaignCode: "c", PostbackKey: "k"},
		Products:      repos.Products,
		Transactions:  repos.Transactions,
		Registrations: repos.Registrations,
		Postbacks:     &captureDispatcher{},
	})

	categories, err := catalogSvc.ListCategories(context.Background())
	if err != nil {
		t.Fatalf("categories: %v", err)
	}
	if len(categories) != 3 || categories[0] != "Apparel" {
		t.Fatalf("expected sorted unique categories, got %v", categories)
	}

	rows, err := catalogSvc.ListProducts(context.Background(), "shoes")
	if err != nil {
		t.Fatalf("list by category: %v", err)
	}
	if len(rows) != 1 || rows[0].ProductID != "prod_1" {
		t.Fatalf("case-insensitive category filter failed: %+v", rows)
	}

	if _, err := catalogSvc.GetProduct(context.Background(), "nope"); err != domain.ErrNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
