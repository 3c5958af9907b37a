package testfixtures

import (
	"context"
	"sync"
)

// PublishedEvent событие, записанное RecordingPublisher
type PublishedEvent struct {
	RoutingKey string
	Payload    interface{}
}

// RecordingPublisher запоминает опубликованные события
type RecordingPublisher struct {
	mu     sync.Mutex
	events []PublishedEvent
	Err    error
}

func (p *RecordingPublisher) Publish(ctx context.Context, routingKey string, payload interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.Err != nil {
		return p.Err
	}
	p.events = append(p.events, PublishedEvent{RoutingKey: routingKey, Payload: payload})
	return nil
}

// Events возвращает копию опубликованных событий
func (p *RecordingPublisher) Events() []PublishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()

	result := make([]PublishedEvent, len(p.events))
	copy(result, p.events)
	return result
}

// Keys возвращает routing keys опубликованных событий по порядку
func (p *RecordingPublisher) Keys() []string {
	events := p.Events()
	keys := make([]string, 0, len(events))
	for _, e := range events {
		keys = append(keys, e.RoutingKey)
	}
	return keys
}
