package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetActiveByProviderAndDate(ctx context.Context, providerID, date string) ([]*domain.Booking, error)
	HasShortBooking(ctx context.Context, clientID string) (bool, error)
}

// LeaseManager интерфейс менеджера аренды слотов
type LeaseManager interface {
	Consume(ctx context.Context, slot domain.SlotKey, holderID string, fn func(ctx context.Context, l domain.Lease) error) error
}

// PriceCalculator интерфейс калькулятора цены
type PriceCalculator interface {
	Quote(serviceID string, tier domain.DurationTier, country string, isFirstTime bool) (int64, error)
	Service(serviceID string) (domain.ServiceCatalogEntry, error)
	Currency() string
}

// EventPublisher интерфейс публикации событий жизненного цикла
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload interface{}) error
}

// Metrics интерфейс бизнес-метрик
type Metrics interface {
	IncBookingCreated(tier string)
	IncPricingMismatch()
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
