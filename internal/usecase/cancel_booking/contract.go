package cancel_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	Cancel(ctx context.Context, id string, refund domain.RefundDecision, cancelledAt time.Time) error
}

// SlotLocker интерфейс блокировки окна слота
type SlotLocker interface {
	WithSlotLock(ctx context.Context, slot domain.SlotKey, minutes int, fn func(ctx context.Context) error) error
}

// RefundPolicy интерфейс политики возврата
type RefundPolicy interface {
	Decide(booking *domain.Booking, appointmentAt, now time.Time) domain.RefundDecision
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher интерфейс публикации событий жизненного цикла
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload interface{}) error
}

// Metrics интерфейс бизнес-метрик
type Metrics interface {
	IncBookingCancelled()
	IncRefundComputed(percentage int)
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
