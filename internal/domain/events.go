package domain

// Routing keys on the consultations exchange
const (
	RKBookingCreated   = "booking.created"
	RKBookingConfirmed = "booking.confirmed"
	RKBookingCancelled = "booking.cancelled"
	RKRefundComputed   = "refund.computed"

	RKPaymentPaid   = "payment.paid"
	RKPaymentFailed = "payment.failed"
)

// BookingEvent payload for booking lifecycle events
type BookingEvent struct {
	BookingID       string `json:"booking_id"`
	ClientID        string `json:"client_id"`
	ProviderID      string `json:"provider_id"`
	ServiceID       string `json:"service_id"`
	DurationTier    string `json:"duration_tier"`
	Date            string `json:"date"`
	StartTime       string `json:"start_time"`
	DurationMinutes int    `json:"duration_minutes"`
	Amount          int64  `json:"amount"`
	Currency        string `json:"currency"`
	Status          string `json:"status"`
	PaymentStatus   string `json:"payment_status"`
	OccurredAt      int64  `json:"occurred_at"` // unix seconds

	// Refund is set on booking.cancelled, including 0% outcomes
	Refund *RefundPayload `json:"refund,omitempty"`
}

// RefundPayload refund tier attached to a cancelled booking
type RefundPayload struct {
	Eligible   bool   `json:"eligible"`
	Percentage int    `json:"percentage"`
	Amount     int64  `json:"amount"`
	Reason     string `json:"reason"`
}

// RefundComputedEvent payload emitted for every cancellation, eligible or not
type RefundComputedEvent struct {
	BookingID  string `json:"booking_id"`
	ClientID   string `json:"client_id"`
	Eligible   bool   `json:"eligible"`
	Percentage int    `json:"percentage"`
	Amount     int64  `json:"amount"`
	Currency   string `json:"currency"`
	Reason     string `json:"reason"`
	OccurredAt int64  `json:"occurred_at"`
}

// PaymentPaidEvent payload received from the payment collaborator
type PaymentPaidEvent struct {
	BookingID string `json:"booking_id"`
	ChargeID  string `json:"charge_id"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
}

// PaymentFailedEvent payload received from the payment collaborator
type PaymentFailedEvent struct {
	BookingID      string `json:"booking_id"`
	ChargeID       string `json:"charge_id"`
	FailureCode    string `json:"failure_code,omitempty"`
	FailureMessage string `json:"failure_message,omitempty"`
}

// NewBookingEvent builds the lifecycle payload for a booking
func NewBookingEvent(b *Booking, occurredAt int64) BookingEvent {
	ev := BookingEvent{
		BookingID:       b.ID,
		ClientID:        b.ClientID,
		ProviderID:      b.ProviderID,
		ServiceID:       b.ServiceID,
		DurationTier:    string(b.DurationTier),
		Date:            b.Slot.Date,
		StartTime:       b.Slot.StartTime.String(),
		DurationMinutes: b.DurationMinutes,
		Amount:          b.Amount,
		Currency:        b.Currency,
		Status:          string(b.Status),
		PaymentStatus:   string(b.PaymentStatus),
		OccurredAt:      occurredAt,
	}
	if b.Refund != nil {
		ev.Refund = &RefundPayload{
			Eligible:   b.Refund.Eligible,
			Percentage: b.Refund.Percentage,
			Amount:     b.Refund.Amount,
			Reason:     b.Refund.Reason,
		}
	}
	return ev
}
