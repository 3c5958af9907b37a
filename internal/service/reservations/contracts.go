package reservations

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	"github.com/m04kA/SMC-ConsultationService/pkg/types"
)

// LeaseManager интерфейс менеджера аренд слотов
type LeaseManager interface {
	Acquire(ctx context.Context, slot domain.SlotKey, tier domain.DurationTier, holderID string) (*domain.Lease, error)
	Release(ctx context.Context, slot domain.SlotKey, holderID string) error
	TierMinutes(tier domain.DurationTier) (int, bool)
}

// ScheduleService интерфейс проверки слота по расписанию провайдера
type ScheduleService interface {
	IsOnGrid(ctx context.Context, providerID string, date time.Time, start types.TimeString, minutes int) (bool, error)
}

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
