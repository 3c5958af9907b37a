package domain

import (
	"time"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

// PaymentStatus represents the payment state of a booking
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

// RefundDecision outcome of the refund policy for a cancellation
type RefundDecision struct {
	Eligible   bool
	Percentage int // 0, 50 or 100
	Reason     string
	Amount     int64 // refundable amount in minor units
}

// Booking represents a consultation booking.
// Amount and Country are frozen at creation and never recomputed.
type Booking struct {
	ID              string
	ClientID        string
	ProviderID      string
	ServiceID       string
	DurationTier    DurationTier
	Slot            SlotKey
	DurationMinutes int

	Country       string
	Currency      string
	Amount        int64  // minor units
	PreviewAmount *int64 // advisory amount shown to the client, audit only

	PaymentStatus PaymentStatus
	Status        BookingStatus
	Refund        *RefundDecision

	CancelledAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsActive returns true if the booking occupies its window (pending or confirmed)
func (b *Booking) IsActive() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// IsFree returns true for zero-amount bookings
func (b *Booking) IsFree() bool {
	return b.Amount == 0
}

// Window returns the time window occupied by the booking
func (b *Booking) Window() (TimeWindow, error) {
	return b.Slot.Window(b.DurationMinutes)
}

// AppointmentAt returns the absolute appointment start
func (b *Booking) AppointmentAt(loc *time.Location) (time.Time, error) {
	return b.Slot.StartsAt(loc)
}

// EndsAt returns the absolute appointment end
func (b *Booking) EndsAt(loc *time.Location) (time.Time, error) {
	start, err := b.AppointmentAt(loc)
	if err != nil {
		return time.Time{}, err
	}
	return start.Add(time.Duration(b.DurationMinutes) * time.Minute), nil
}

// EffectiveStatus returns the stored status, inferring Completed for a
// confirmed booking whose appointment has already ended
func (b *Booking) EffectiveStatus(now time.Time, loc *time.Location) BookingStatus {
	if b.Status != StatusConfirmed {
		return b.Status
	}
	end, err := b.EndsAt(loc)
	if err != nil {
		return b.Status
	}
	if !now.Before(end) {
		return StatusCompleted
	}
	return b.Status
}

// CanBeCancelled returns true if the booking may move to Cancelled at now
func (b *Booking) CanBeCancelled(now time.Time, loc *time.Location) bool {
	status := b.EffectiveStatus(now, loc)
	return status == StatusPending || status == StatusConfirmed
}

// IsCancelled returns true if the booking has been cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// ClientBookingsFilter фильтр для истории бронирований клиента
type ClientBookingsFilter struct {
	ClientID string         // Обязательный параметр
	Status   *BookingStatus // Фильтр по эффективному статусу (опционально)
}

// ProviderBookingsFilter фильтр для получения бронирований провайдера
type ProviderBookingsFilter struct {
	ProviderID      string         // Обязательный параметр
	StartDate       *time.Time     // Начало периода (опционально)
	EndDate         *time.Time     // Конец периода (опционально)
	Status          *BookingStatus // Фильтр по статусу (опционально)
	IncludeInactive bool           // Включать ли отмененные бронирования
}
