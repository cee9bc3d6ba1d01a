package domain

const (
	EventOrderPlaced            = "storefront.order.placed"
	EventRegistrationCreated    = "storefront.event.registered"
	EventConversionAttributed   = "tracking.conversion.attributed"
	EventConversionDeduplicated = "tracking.conversion.deduplicated"
)

func IsCanonicalEmittedEvent(eventType string) bool {
	switch eventType {
	case EventOrderPlaced, EventRegistrationCreated, EventConversionAttributed, EventConversionDeduplicated:
		return true
	default:
		return false
	}
}

func CanonicalPartitionKeyPath(eventType string) string {
	if IsCanonicalEmittedEvent(eventType) {
		return "data.order_id"
	}
	return ""
}
