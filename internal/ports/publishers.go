package ports

import (
	"context"

	"github.com/sportshop/storefront/internal/domain"
)

type AnalyticsPublisher interface {
	Publish(ctx context.Context, eventType string, payload []byte, partitionKey string) error
}

// PostbackDispatcher schedules the outbound affiliate notification. The call
// returns before the network send happens; failures are logged, not returned.
type PostbackDispatcher interface {
	Dispatch(request domain.PostbackRequest)
}
