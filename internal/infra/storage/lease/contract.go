package lease

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
)

// OccupancyChecker проверяет, занято ли окно слота бронированием
type OccupancyChecker interface {
	IsOccupied(ctx context.Context, slot domain.SlotKey, window domain.TimeWindow) (bool, error)
}

// BookingReader интерфейс чтения активных бронирований провайдера
type BookingReader interface {
	GetActiveByProviderAndDate(ctx context.Context, providerID, date string) ([]*domain.Booking, error)
}

// Metrics интерфейс для метрик менеджера аренд
type Metrics interface {
	IncLeaseAcquisition(result string)
	IncLockTimeout()
	AddLeasesSwept(n int)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider реальная реализация TimeProvider
type RealTimeProvider struct{}

// Now возвращает текущее время
func (r *RealTimeProvider) Now() time.Time {
	return time.Now()
}
