package get_provider_availability

import (
	"context"

	"github.com/m04kA/SMC-ConsultationService/internal/service/availability/models"
)

type AvailabilityService interface {
	GetSchedule(ctx context.Context, providerID string) (*models.ScheduleResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
