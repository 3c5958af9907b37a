package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	// GetActiveByProviderAndDate получает pending и confirmed бронирования провайдера на дату
	GetActiveByProviderAndDate(ctx context.Context, providerID, date string) ([]*domain.Booking, error)
}

// ScheduleService интерфейс сервиса расписаний
type ScheduleService interface {
	// Windows нарезает рабочий день провайдера на окна заданной ширины
	Windows(ctx context.Context, providerID string, date time.Time, minutes int) ([]domain.TimeWindow, error)
}

// LeaseView интерфейс чтения активных аренд
type LeaseView interface {
	ActiveLeases(providerID, date string, now time.Time) []domain.Lease
	TierMinutes(tier domain.DurationTier) (int, bool)
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
