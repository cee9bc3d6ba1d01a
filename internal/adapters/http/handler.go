package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sportshop/storefront/internal/application"
	"github.com/sportshop/storefront/internal/contracts"
	"github.com/sportshop/storefront/internal/domain"
)

type Handler struct {
	service *application.Service
	logger  *slog.Logger
}

func NewHandler(service *application.Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{service: service, logger: logger}
}

func (h *Handler) initTracking(w http.ResponseWriter, r *http.Request) {
	var req contracts.InitTrackingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", "invalid json body")
		return
	}
	cookies := h.service.InitializeVisit(application.InitVisitInput{
		AffiliateUID:    req.AdmitadUID,
		PublisherID:     req.PID,
		UTMSource:       req.UTMSource,
		GoogleClickID:   req.GCLID,
		FacebookClickID: req.FBCLID,
	})
	for _, c := range cookies {
		http.SetCookie(w, &http.Cookie{
			Name:     c.Name,
			Value:    c.Value,
			Path:     "/",
			MaxAge:   int(c.MaxAge / time.Second),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cookies initiated"})
}

func (h *Handler) trackConversion(w http.ResponseWriter, r *http.Request) {
	var req contracts.TrackConversionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", "invalid json body")
		return
	}

	visit := h.service.VisitFromCookies(func(name string) string { return cookieValue(r, name) })
	event := domain.ConversionEvent{
		OrderID:     req.OrderID,
		OrderAmount: req.OrderAmount,
		PaymentType: req.PaymentType,
		PromoCode:   req.Promocode,
		ActionCode:  req.ActionCode,
		TariffCodes: req.TariffCodes,
		Currency:    req.Currency,
	}
	for _, item := range req.Items {
		event.Items = append(event.Items, domain.ConversionItem{
			ProductID: item.ID,
			Price:     item.Price,
			Quantity:  item.Quantity,
			SKU:       item.SKU,
		})
	}

	out, err := h.service.TrackConversion(r.Context(), visit, event)
	if err != nil {
		code, c := mapDomainError(err)
		writeError(w, code, c, err.Error())
		return
	}
	if !out.Scheduled {
		h.logger.InfoContext(r.Context(), "conversion deduplicated",
			"order_id", event.OrderID, "source", out.Source, "request_id", requestIDFromContext(r.Context()))
		writeJSON(w, http.StatusOK, map[string]string{"status": "deduplicated", "source": out.Source})
		return
	}
	h.logger.InfoContext(r.Context(), "postback scheduled",
		"order_id", event.OrderID, "reason", string(out.Reason), "request_id", requestIDFromContext(r.Context()))
	writeJSON(w, http.StatusOK, map[string]string{"status": "success", "message": "Postback scheduled"})
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.ListCategories(r.Context())
	if err != nil {
		code, c := mapDomainError(err)
		writeError(w, code, c, err.Error())
		return
	}
	writeSuccess(w, http.StatusOK, rows)
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.ListProducts(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		code, c := mapDomainError(err)
		writeError(w, code, c, err.Error())
		return
	}
	writeSuccess(w, http.StatusOK, rows)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	row, err := h.service.GetProduct(r.Context(), chi.URLParam(r, "product_id"))
	if err != nil {
		code, c := mapDomainError(err)
		writeError(w, code, c, err.Error())
		return
	}
	writeSuccess(w, http.StatusOK, row)
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req contracts.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", "invalid json body")
		return
	}
	in := application.PlaceOrderInput{
		UserName:      req.UserName,
		UserEmail:     req.UserEmail,
		PaymentMethod: req.PaymentMethod,
		TotalAmount:   req.TotalAmount,
	}
	for _, item := range req.Items {
		in.Items = append(in.Items, application.OrderItemInput{
			ProductID: item.ID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
		})
	}
	if req.CardDetails != nil {
		in.Card = &domain.CardDetails{
			Number:     req.CardDetails.CardNumber,
			ExpiryDate: req.CardDetails.ExpiryDate,
			CVV:        req.CardDetails.CVV,
			OwnerName:  req.CardDetails.OwnerName,
		}
	}
	out, err := h.service.PlaceOrder(r.Context(), in)
	if err != nil {
		code, c := mapDomainError(err)
		writeError(w, code, c, err.Error())
		return
	}
	writeSuccess(w, http.StatusCreated, contracts.CreateOrderResponse{
		OrderID:     out.OrderID,
		TotalAmount: out.TotalAmount,
		PaymentRef:  out.PaymentRef,
	})
}

func (h *Handler) registerEvent(w http.ResponseWriter, r *http.Request) {
	var req contracts.EventRegistrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", "invalid json body")
		return
	}
	out, err := h.service.RegisterEvent(r.Context(), application.RegisterEventInput{
		UserName:  req.UserName,
		UserEmail: req.UserEmail,
		EventName: req.EventName,
	})
	if err != nil {
		code, c := mapDomainError(err)
		writeError(w, code, c, err.Error())
		return
	}
	writeSuccess(w, http.StatusCreated, contracts.EventRegistrationResponse{
		RegistrationID: out.RegistrationID,
		UserName:       out.UserName,
		EventName:      out.EventName,
	})
}

func (h *Handler) listTransactions(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.ListTransactions(r.Context())
	if err != nil {
		code, c := mapDomainError(err)
		writeError(w, code, c, err.Error())
		return
	}
	items := make([]contracts.TransactionResponse, 0, len(rows))
	for _, row := range rows {
		items = append(items, contracts.TransactionResponse{
			TransactionID: row.TransactionID,
			OrderID:       row.OrderID,
			PaymentRef:    row.PaymentRef,
			UserEmail:     row.UserEmail,
			Amount:        row.Amount,
			PaymentMethod: row.PaymentMethod,
			CreatedAt:     row.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	writeSuccess(w, http.StatusOK, items)
}

func cookieValue(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}
