package cancel_booking

import (
	"time"

	bookingModels "github.com/m04kA/SMC-ConsultationService/internal/service/bookings/models"
	cancelBooking "github.com/m04kA/SMC-ConsultationService/internal/usecase/cancel_booking"
)

// CancelBookingResponse HTTP response model
type CancelBookingResponse struct {
	Booking *bookingModels.BookingResponse `json:"booking"`
	Refund  bookingModels.RefundResponse   `json:"refund"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *cancelBooking.Response, loc *time.Location) *CancelBookingResponse {
	return &CancelBookingResponse{
		Booking: bookingModels.FromDomainBooking(resp.Booking, resp.Now, loc),
		Refund: bookingModels.RefundResponse{
			Eligible:   resp.Refund.Eligible,
			Percentage: resp.Refund.Percentage,
			Reason:     resp.Refund.Reason,
			Amount:     resp.Refund.Amount,
		},
	}
}
