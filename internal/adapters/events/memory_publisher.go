package events

import (
	"context"
	"sync"
)

type PublishedEvent struct {
	EventType    string
	Payload      []byte
	PartitionKey string
}

// MemoryPublisher collects events in-process. Used when no broker is
// configured and by the unit suite.
type MemoryPublisher struct {
	mu     sync.Mutex
	Events []PublishedEvent
}

func NewMemoryPublisher() *MemoryPublisher { return &MemoryPublisher{} }

func (p *MemoryPublisher) Publish(_ context.Context, eventType string, payload []byte, partitionKey string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Events = append(p.Events, PublishedEvent{EventType: eventType, Payload: payload, PartitionKey: partitionKey})
	return nil
}

func (p *MemoryPublisher) ByType(eventType string) []PublishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []PublishedEvent
	for _, e := range p.Events {
		if e.EventType == eventType {
			out = append(out, e)
		}
	}
	return out
}
