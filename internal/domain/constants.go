package domain

import "time"

// Default configuration values
const (
	DefaultStandardSlotMinutes     = 30
	DefaultShortSlotMinutes        = 15
	DefaultLeaseTTL                = 5 * time.Minute
	DefaultLockWait                = 250 * time.Millisecond
	DefaultMinBookingNoticeMinutes = 60 // 1 hour
	DefaultAdvanceBookingDays      = 0  // 0 = unlimited
	DefaultWorkdayStart            = "09:00"
	DefaultWorkdayEnd              = "18:00"
)

// Business validation constants
const (
	MaxIDLength             = 128
	MaxCountryLength        = 64
	MaxAdvanceBookingDays   = 365 // 1 year
	MaxBookingNoticeMinutes = 10080
)

// Refund policy thresholds
const (
	FullRefundNotice     = 24 * time.Hour
	PartialRefundNotice  = 12 * time.Hour
	FullRefundPercent    = 100
	PartialRefundPercent = 50
)

// Refund decision reasons
const (
	RefundReasonFreeConsultation = "free consultation"
	RefundReasonNoPayment        = "no payment made"
	RefundReasonFull             = "cancelled at least 24 hours before the appointment"
	RefundReasonPartial          = "cancelled 12 to 24 hours before the appointment"
	RefundReasonTooLate          = "cancelled less than 12 hours before the appointment"
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses статусы бронирований, занимающих слот
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
}

// InactiveStatuses статусы бронирований, освободивших слот
var InactiveStatuses = []BookingStatus{
	StatusCancelled,
}
