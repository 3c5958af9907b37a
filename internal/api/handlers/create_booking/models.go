package create_booking

import (
	"time"

	bookingModels "github.com/m04kA/SMC-ConsultationService/internal/service/bookings/models"
	createBooking "github.com/m04kA/SMC-ConsultationService/internal/usecase/create_booking"
	"github.com/m04kA/SMC-ConsultationService/pkg/types"
)

// CreateBookingRequest HTTP request model
// Клиент берется из X-User-ID, страна только из X-Geo-Country
type CreateBookingRequest struct {
	ProviderID    string `json:"providerId"`
	ServiceID     string `json:"serviceId"`
	Tier          string `json:"tier"`        // "short" | "standard"
	BookingDate   string `json:"bookingDate"` // "2025-10-15"
	StartTime     string `json:"startTime"`   // "10:00"
	PreviewAmount *int64 `json:"previewAmount,omitempty"`
}

// PricingMismatchResponse расхождение показанной и рассчитанной суммы
type PricingMismatchResponse struct {
	PreviewAmount int64 `json:"previewAmount"`
	QuotedAmount  int64 `json:"quotedAmount"`
}

// CreateBookingResponse HTTP response model
type CreateBookingResponse struct {
	Booking         *bookingModels.BookingResponse `json:"booking"`
	PricingMismatch *PricingMismatchResponse       `json:"pricingMismatch,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(clientID, geoCountry string) (*createBooking.Request, error) {
	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		ClientID:      clientID,
		ProviderID:    r.ProviderID,
		ServiceID:     r.ServiceID,
		Tier:          r.Tier,
		Date:          r.BookingDate,
		StartTime:     startTime,
		Country:       geoCountry,
		PreviewAmount: r.PreviewAmount,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response, loc *time.Location) *CreateBookingResponse {
	out := &CreateBookingResponse{
		Booking: bookingModels.FromDomainBooking(resp.Booking, resp.Now, loc),
	}
	if resp.PricingMismatch != nil {
		out.PricingMismatch = &PricingMismatchResponse{
			PreviewAmount: resp.PricingMismatch.PreviewAmount,
			QuotedAmount:  resp.PricingMismatch.QuotedAmount,
		}
	}
	return out
}
