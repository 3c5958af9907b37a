package acquire_lease

import (
	"context"

	"github.com/m04kA/SMC-ConsultationService/internal/service/reservations/models"
)

type ReservationService interface {
	Acquire(ctx context.Context, req *models.AcquireRequest) (*models.LeaseResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
