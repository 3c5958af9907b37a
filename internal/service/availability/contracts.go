package availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
)

// AvailabilityRepository интерфейс репозитория расписаний провайдеров
type AvailabilityRepository interface {
	GetByProvider(ctx context.Context, providerID string) ([]*domain.ProviderAvailability, error)
	GetByProviderAndWeekday(ctx context.Context, providerID string, weekday time.Weekday) (*domain.ProviderAvailability, error)
	Upsert(ctx context.Context, a *domain.ProviderAvailability) (*domain.ProviderAvailability, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
