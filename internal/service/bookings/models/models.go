package models

import (
	"errors"
	"strings"
	"time"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// GetClientBookingsRequest запрос на получение бронирований клиента
type GetClientBookingsRequest struct {
	ClientID string  `json:"clientId"`
	Status   *string `json:"status,omitempty"`
}

// GetProviderBookingsRequest запрос на получение бронирований провайдера
type GetProviderBookingsRequest struct {
	UserID          string     `json:"userId"`
	ProviderID      string     `json:"providerId"`
	StartDate       *time.Time `json:"startDate,omitempty"`       // Начало периода (опционально)
	EndDate         *time.Time `json:"endDate,omitempty"`         // Конец периода (опционально)
	Status          *string    `json:"status,omitempty"`          // Фильтр по статусу (опционально)
	IncludeInactive bool       `json:"includeInactive,omitempty"` // Включить отменённые бронирования
}

// ToDomainFilter конвертирует request в domain фильтр.
// Статус фильтруется по эффективному значению после выборки,
// поэтому в БД уходят только провайдер и период.
func (r *GetProviderBookingsRequest) ToDomainFilter() (domain.ProviderBookingsFilter, *domain.BookingStatus, error) {
	filter := domain.ProviderBookingsFilter{
		ProviderID:      r.ProviderID,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		IncludeInactive: r.IncludeInactive,
	}

	if r.Status == nil {
		return filter, nil, nil
	}

	status, err := ToDomainBookingStatus(*r.Status)
	if err != nil {
		return filter, nil, err
	}
	if status == domain.StatusCancelled {
		filter.IncludeInactive = true
	}

	return filter, &status, nil
}

// Response модели

// RefundResponse решение о возврате при отмене
type RefundResponse struct {
	Eligible   bool   `json:"eligible"`
	Percentage int    `json:"percentage"`
	Reason     string `json:"reason"`
	Amount     int64  `json:"amount"`
}

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID              string          `json:"id"`
	ClientID        string          `json:"clientId"`
	ProviderID      string          `json:"providerId"`
	ServiceID       string          `json:"serviceId"`
	DurationTier    string          `json:"durationTier"`
	BookingDate     string          `json:"bookingDate"` // "2025-03-01"
	StartTime       string          `json:"startTime"`   // "10:00"
	EndTime         string          `json:"endTime"`     // "10:30"
	DurationMinutes int             `json:"durationMinutes"`
	Country         string          `json:"country"`
	Currency        string          `json:"currency"`
	Amount          int64           `json:"amount"`
	PreviewAmount   *int64          `json:"previewAmount,omitempty"`
	PaymentStatus   string          `json:"paymentStatus"`
	Status          string          `json:"status"`
	Refund          *RefundResponse `json:"refund,omitempty"`
	CancelledAt     *time.Time      `json:"cancelledAt,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// EligibilityResponse право клиента на бесплатную консультацию
type EligibilityResponse struct {
	ClientID         string `json:"clientId"`
	FreeTierEligible bool   `json:"freeTierEligible"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO.
// Статус отдается эффективный: подтвержденная прошедшая консультация считается completed.
func FromDomainBooking(b *domain.Booking, now time.Time, loc *time.Location) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:              b.ID,
		ClientID:        b.ClientID,
		ProviderID:      b.ProviderID,
		ServiceID:       b.ServiceID,
		DurationTier:    string(b.DurationTier),
		BookingDate:     b.Slot.Date,
		StartTime:       b.Slot.StartTime.String(),
		DurationMinutes: b.DurationMinutes,
		Country:         b.Country,
		Currency:        b.Currency,
		Amount:          b.Amount,
		PreviewAmount:   b.PreviewAmount,
		PaymentStatus:   string(b.PaymentStatus),
		Status:          string(b.EffectiveStatus(now, loc)),
		CancelledAt:     b.CancelledAt,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}

	if end, err := b.Slot.StartTime.AddMinutes(b.DurationMinutes); err == nil {
		resp.EndTime = end.String()
	}

	if b.Refund != nil {
		resp.Refund = &RefundResponse{
			Eligible:   b.Refund.Eligible,
			Percentage: b.Refund.Percentage,
			Reason:     b.Refund.Reason,
			Amount:     b.Refund.Amount,
		}
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking, now time.Time, loc *time.Location) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, b := range bookings {
		if r := FromDomainBooking(b, now, loc); r != nil {
			resp.Bookings = append(resp.Bookings, *r)
		}
	}

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(strings.ToLower(strings.TrimSpace(status)))
	switch s {
	case domain.StatusPending,
		domain.StatusConfirmed,
		domain.StatusCompleted,
		domain.StatusCancelled:
		return s, nil
	default:
		return "", ErrInvalidStatus
	}
}
