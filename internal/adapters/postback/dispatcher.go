package postback

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/sportshop/storefront/internal/domain"
)

const secretParam = "postback_key"

// Dispatcher performs the outbound affiliate notification on a detached
// goroutine. Dispatch returns immediately; the conversion endpoint's
// response time never includes the network round trip. Failures are logged
// and dropped, the conversion itself already succeeded.
type Dispatcher struct {
	client  *http.Client
	logger  *slog.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewDispatcher(logger *slog.Logger, timeout time.Duration) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Dispatcher{
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
		timeout: timeout,
	}
}

func (d *Dispatcher) Dispatch(request domain.PostbackRequest) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.send(request)
	}()
}

// Wait blocks until all in-flight sends finish. Used on shutdown and in
// tests; callers should bound it with their own deadline.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) send(request domain.PostbackRequest) {
	target, err := url.Parse(request.URL)
	if err != nil {
		d.logger.Error("postback url invalid", "order_id", request.OrderID, "error", err)
		return
	}
	query := url.Values{}
	for key, value := range request.Params {
		query.Set(key, value)
	}
	target.RawQuery = query.Encode()

	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		d.logger.Error("postback request build failed", "order_id", request.OrderID, "error", err)
		return
	}

	d.logger.Debug("postback send started", "order_id", request.OrderID, "params", MaskSecrets(request.Params))
	resp, err := d.client.Do(req)
	if err != nil {
		d.logger.Error("postback send failed", "order_id", request.OrderID, "error", err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		d.logger.Error("postback rejected", "order_id", request.OrderID, "status", resp.StatusCode)
		return
	}
	d.logger.Info("postback sent", "order_id", request.OrderID, "status", resp.StatusCode)
}

// MaskSecrets returns a copy of the parameter map safe for logging.
func MaskSecrets(params map[string]string) map[string]string {
	masked := make(map[string]string, len(params))
	for key, value := range params {
		if key == secretParam && value != "" {
			masked[key] = "********"
			continue
		}
		masked[key] = value
	}
	return masked
}
