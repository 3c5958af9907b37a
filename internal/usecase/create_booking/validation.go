package create_booking

import (
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) (domain.DurationTier, domain.SlotKey, error) {
	if strings.TrimSpace(req.ClientID) == "" {
		return "", domain.SlotKey{}, fmt.Errorf("%w: clientId is required", ErrInvalidInput)
	}
	if len(req.ClientID) > domain.MaxIDLength {
		return "", domain.SlotKey{}, fmt.Errorf("%w: clientId is too long", ErrInvalidInput)
	}

	if strings.TrimSpace(req.ServiceID) == "" {
		return "", domain.SlotKey{}, fmt.Errorf("%w: serviceId is required", ErrInvalidInput)
	}

	if len(req.Country) > domain.MaxCountryLength {
		return "", domain.SlotKey{}, fmt.Errorf("%w: country is too long", ErrInvalidInput)
	}

	tier, err := domain.ParseDurationTier(req.Tier)
	if err != nil {
		return "", domain.SlotKey{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	slot := domain.SlotKey{
		ProviderID: req.ProviderID,
		Date:       req.Date,
		StartTime:  req.StartTime,
	}
	if err := slot.Validate(); err != nil {
		return "", domain.SlotKey{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if req.PreviewAmount != nil && *req.PreviewAmount < 0 {
		return "", domain.SlotKey{}, fmt.Errorf("%w: previewAmount must not be negative", ErrInvalidInput)
	}

	return tier, slot, nil
}

// mapPolicyError переводит нарушение правил уведомления и горизонта в ошибки usecase
func mapPolicyError(err error) error {
	switch {
	case errors.Is(err, domain.ErrSlotInPast):
		return ErrInvalidDate
	case errors.Is(err, domain.ErrTooLateToBook):
		return fmt.Errorf("%w: %v", ErrTooLateToBook, err)
	case errors.Is(err, domain.ErrDateTooFarInFuture):
		return fmt.Errorf("%w: %v", ErrDateTooFarInFuture, err)
	default:
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
}

// hasOverlap проверяет, пересекает ли окно хотя бы одно активное бронирование
// Смежные окна не пересекаются
func hasOverlap(window domain.TimeWindow, bookings []*domain.Booking) (bool, error) {
	for _, b := range bookings {
		if !b.IsActive() {
			continue
		}
		bw, err := b.Window()
		if err != nil {
			return false, err
		}
		if window.Overlaps(bw) {
			return true, nil
		}
	}
	return false, nil
}
