package events

import (
	"context"
	"fmt"
)

// JSONPublisher интерфейс транспорта (pkg/mq.Publisher)
type JSONPublisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

// Metrics интерфейс метрик публикации
type Metrics interface {
	IncEventPublished(routingKey string, ok bool)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Publisher публикует события жизненного цикла бронирований в exchange consultations
type Publisher struct {
	transport JSONPublisher
	metrics   Metrics
	logger    Logger
}

// NewPublisher создает публикатор поверх транспорта
func NewPublisher(transport JSONPublisher, metrics Metrics, logger Logger) *Publisher {
	return &Publisher{
		transport: transport,
		metrics:   metrics,
		logger:    logger,
	}
}

// Publish сериализует payload в JSON и отправляет с routing key
func (p *Publisher) Publish(ctx context.Context, routingKey string, payload interface{}) error {
	err := p.transport.PublishJSON(ctx, routingKey, payload)
	if p.metrics != nil {
		p.metrics.IncEventPublished(routingKey, err == nil)
	}
	if err != nil {
		p.logger.Error("Publish: failed to publish %s: %v", routingKey, err)
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}

	p.logger.Info("Publish: %s published", routingKey)
	return nil
}

// NopPublisher отбрасывает события (RabbitMQ выключен в конфигурации)
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, routingKey string, payload interface{}) error {
	return nil
}
