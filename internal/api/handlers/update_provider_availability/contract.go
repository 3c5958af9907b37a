package update_provider_availability

import (
	"context"

	"github.com/m04kA/SMC-ConsultationService/internal/service/availability/models"
)

type AvailabilityService interface {
	UpsertDay(ctx context.Context, req *models.UpsertDayRequest) (*models.DayResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
