package cancel_booking

import (
	"time"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
)

// Request модель запроса на отмену бронирования
type Request struct {
	BookingID string // ID бронирования
	ClientID  string // ID клиента, отменяющего бронирование
}

// Response модель ответа с отмененным бронированием и решением по возврату
type Response struct {
	Booking *domain.Booking
	Refund  domain.RefundDecision
	Now     time.Time // момент отмены
}
