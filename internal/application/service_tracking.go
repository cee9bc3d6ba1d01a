package application

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sportshop/storefront/internal/contracts"
	"github.com/sportshop/storefront/internal/domain"
)

// Canonical source labels written when a paid click id arrives without an
// explicit utm_source. These match what the affiliate network's own pixels
// record, so last-touch comparison stays consistent across channels.
const (
	sourceGoogleAds   = "advAutoMarkup"
	sourceFacebookAds = "facebook"
)

// InitializeVisit maps visit-time tracking parameters to the first-party
// cookies to persist. Absent parameters are skipped; in particular the
// last-source cookie is only rewritten when a new source signal arrives, so
// an earlier paid click keeps its attribution until a later one replaces it.
func (s *Service) InitializeVisit(in InitVisitInput) []CookieSpec {
	var cookies []CookieSpec
	if uid := strings.TrimSpace(in.AffiliateUID); uid != "" {
		cookies = append(cookies, CookieSpec{Name: s.cfg.CookieAffiliateUID, Value: uid, MaxAge: s.cfg.CookieLifetime})
	}
	if pid := strings.TrimSpace(in.PublisherID); pid != "" {
		cookies = append(cookies, CookieSpec{Name: s.cfg.CookiePublisherID, Value: pid, MaxAge: s.cfg.CookieLifetime})
	}

	source := ""
	switch {
	case strings.TrimSpace(in.UTMSource) != "":
		source = strings.TrimSpace(in.UTMSource)
	case strings.TrimSpace(in.GoogleClickID) != "":
		source = sourceGoogleAds
	case strings.TrimSpace(in.FacebookClickID) != "":
		source = sourceFacebookAds
	}
	if source != "" {
		cookies = append(cookies, CookieSpec{Name: s.cfg.CookieLastSource, Value: source, MaxAge: s.cfg.CookieLifetime})
	}
	return cookies
}

// VisitFromCookies rebuilds the visit context from whatever cookies the
// client sent. lookup returns the cookie value or "" when absent.
func (s *Service) VisitFromCookies(lookup func(name string) string) domain.VisitContext {
	return domain.VisitContext{
		AffiliateUID: lookup(s.cfg.CookieAffiliateUID),
		PublisherID:  lookup(s.cfg.CookiePublisherID),
		LastSource:   lookup(s.cfg.CookieLastSource),
	}
}

// Decide applies the last-paid-click deduplication rule. An affiliate promo
// code overrides source attribution entirely; otherwise the network is
// credited only when it both set its uid cookie and was the last recorded
// traffic source.
func (s *Service) Decide(visit domain.VisitContext, event domain.ConversionEvent) domain.AttributionVerdict {
	if strings.TrimSpace(event.PromoCode) != "" {
		return domain.AttributionVerdict{Attributed: true, Reason: domain.ReasonPromoCode, AttributedSource: visit.LastSource}
	}
	if visit.AffiliateUID != "" && visit.LastSource != "" && s.sourceMatchesNetwork(visit.LastSource) {
		return domain.AttributionVerdict{Attributed: true, Reason: domain.ReasonCookie, AttributedSource: visit.LastSource}
	}
	return domain.AttributionVerdict{Attributed: false, Reason: domain.ReasonNone, AttributedSource: visit.LastSource}
}

func (s *Service) sourceMatchesNetwork(source string) bool {
	if s.cfg.SourceMatchMode == SourceMatchExact {
		return source == s.cfg.NetworkChannel
	}
	return strings.HasPrefix(source, s.cfg.NetworkChannel)
}

// Compose builds the postback parameters for an attributed conversion.
// Numeric values are serialized as decimal strings throughout; the network
// endpoint rejects anything else.
func (s *Service) Compose(event domain.ConversionEvent, verdict domain.AttributionVerdict, visit domain.VisitContext) domain.PostbackRequest {
	paymentType := event.PaymentType
	if paymentType == "" {
		paymentType = "sale"
	}
	currency := event.Currency
	if currency == "" {
		currency = s.cfg.DefaultCurrency
	}
	actionCode := event.ActionCode
	if actionCode == "" {
		if paymentType == "lead" {
			actionCode = s.cfg.DefaultLeadActionCode
		} else {
			actionCode = s.cfg.DefaultSaleActionCode
		}
	}

	params := map[string]string{
		"campaign_code":   s.cfg.CampaignCode,
		"postback_key":    s.cfg.PostbackKey,
		"channel":         s.cfg.NetworkChannel,
		"adm_method":      "sr",
		"adm_method_name": "postback_sdk",
		"v":               "2",
		"rt":              "img",
		"payment_type":    paymentType,
		"currency_code":   currency,
		"action_code":     actionCode,
		"order_id":        event.OrderID,
		"uid":             visit.AffiliateUID,
		"promocode":       strings.TrimSpace(event.PromoCode),
	}
	if visit.PublisherID != "" {
		params["publisher_id"] = visit.PublisherID
	}

	if len(event.Items) > 0 {
		params["_ps"] = s.encodeBasket(event)
	} else {
		params["price"] = event.OrderAmount.String()
		params["tariff_code"] = s.cfg.DefaultTariffCode
	}

	return domain.PostbackRequest{URL: s.cfg.PostbackURL, Params: params, OrderID: event.OrderID}
}

// encodeBasket serializes the itemized order as the network's parallel-array
// basket object. Custom tariff codes apply only when one is supplied per
// position; a partial list falls back to the default for every position.
func (s *Service) encodeBasket(event domain.ConversionEvent) string {
	count := len(event.Items)

	tariffCodes := make([]string, count)
	if len(event.TariffCodes) == count {
		copy(tariffCodes, event.TariffCodes)
	} else {
		for i := range tariffCodes {
			tariffCodes[i] = s.cfg.DefaultTariffCode
		}
	}

	basket := map[string][]string{
		"tariff_code":    tariffCodes,
		"position_id":    make([]string, count),
		"position_count": make([]string, count),
		"price":          make([]string, count),
		"quantity":       make([]string, count),
		"product_id":     make([]string, count),
	}
	for i, item := range event.Items {
		basket["position_id"][i] = strconv.Itoa(i + 1)
		basket["position_count"][i] = strconv.Itoa(count)
		basket["price"][i] = item.Price.String()
		basket["quantity"][i] = strconv.Itoa(item.Quantity)
		basket["product_id"][i] = item.ProductID
	}

	raw, _ := json.Marshal(basket)
	return string(raw)
}

// TrackConversion is the gateway orchestration: validate, decide, then
// either schedule the postback or report deduplication. The dispatch runs on
// its own goroutine, so the result returns before the network send happens.
func (s *Service) TrackConversion(ctx context.Context, visit domain.VisitContext, event domain.ConversionEvent) (TrackConversionResult, error) {
	if err := validateConversionEvent(event); err != nil {
		return TrackConversionResult{}, err
	}

	verdict := s.Decide(visit, event)
	if !verdict.Attributed {
		s.publishConversionDecided(ctx, event.OrderID, verdict)
		return TrackConversionResult{Scheduled: false, Reason: verdict.Reason, Source: verdict.AttributedSource}, nil
	}

	request := s.Compose(event, verdict, visit)
	s.postbacks.Dispatch(request)
	s.publishConversionDecided(ctx, event.OrderID, verdict)
	return TrackConversionResult{Scheduled: true, Reason: verdict.Reason, Source: verdict.AttributedSource}, nil
}

func validateConversionEvent(event domain.ConversionEvent) error {
	if strings.TrimSpace(event.OrderID) == "" {
		return fmt.Errorf("%w: order_id is required", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(event.PaymentType) == "" {
		return fmt.Errorf("%w: payment_type is required", domain.ErrInvalidInput)
	}
	if event.OrderAmount.IsNegative() {
		return fmt.Errorf("%w: order_amount must not be negative", domain.ErrInvalidInput)
	}
	for i, item := range event.Items {
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

func (s *Service) publishConversionDecided(ctx context.Context, orderID string, verdict domain.AttributionVerdict) {
	if s.analytics == nil {
		return
	}
	eventType := domain.EventConversionDeduplicated
	if verdict.Attributed {
		eventType = domain.EventConversionAttributed
	}
	payload, _ := json.Marshal(contracts.ConversionDecidedEvent{
		OrderID:    orderID,
		Attributed: verdict.Attributed,
		Reason:     string(verdict.Reason),
		Source:     verdict.AttributedSource,
		OccurredAt: s.nowFn().Format(time.RFC3339),
	})
	_ = s.analytics.Publish(ctx, eventType, payload, orderID)
}
