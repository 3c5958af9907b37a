package confirm_payment

import (
	"time"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
)

// Request модель запроса на изменение статуса оплаты
type Request struct {
	BookingID string
	ChargeID  string // ID платежа у платежного провайдера (для аудита)
}

// Response модель ответа с бронированием после перехода
type Response struct {
	Booking *domain.Booking
	Changed bool      // false, если переход уже был выполнен ранее
	Now     time.Time // момент перехода
}
