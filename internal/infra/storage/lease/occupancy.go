package lease

import (
	"context"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
)

// BookingOccupancy проверяет занятость окна по активным бронированиям
type BookingOccupancy struct {
	bookings BookingReader
}

// NewBookingOccupancy создает проверку занятости поверх репозитория бронирований
func NewBookingOccupancy(bookings BookingReader) *BookingOccupancy {
	return &BookingOccupancy{bookings: bookings}
}

// IsOccupied возвращает true, если окно пересекается с pending/confirmed бронированием
func (o *BookingOccupancy) IsOccupied(ctx context.Context, slot domain.SlotKey, window domain.TimeWindow) (bool, error) {
	bookings, err := o.bookings.GetActiveByProviderAndDate(ctx, slot.ProviderID, slot.Date)
	if err != nil {
		return false, err
	}

	for _, b := range bookings {
		if !b.IsActive() {
			continue
		}
		bw, err := b.Window()
		if err != nil {
			continue
		}
		if bw.Overlaps(window) {
			return true, nil
		}
	}

	return false, nil
}
