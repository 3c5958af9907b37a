package release_lease

import (
	"context"

	"github.com/m04kA/SMC-ConsultationService/internal/service/reservations/models"
)

type ReservationService interface {
	Release(ctx context.Context, req *models.ReleaseRequest) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
