package confirm_payment

import (
	"time"

	bookingModels "github.com/m04kA/SMC-ConsultationService/internal/service/bookings/models"
	confirmPayment "github.com/m04kA/SMC-ConsultationService/internal/usecase/confirm_payment"
)

// PaymentWebhookRequest HTTP request model (тело опционально)
type PaymentWebhookRequest struct {
	ChargeID string `json:"chargeId"`
}

// PaymentWebhookResponse HTTP response model
type PaymentWebhookResponse struct {
	Booking *bookingModels.BookingResponse `json:"booking"`
	Changed bool                           `json:"changed"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *confirmPayment.Response, loc *time.Location) *PaymentWebhookResponse {
	return &PaymentWebhookResponse{
		Booking: bookingModels.FromDomainBooking(resp.Booking, resp.Now, loc),
		Changed: resp.Changed,
	}
}
