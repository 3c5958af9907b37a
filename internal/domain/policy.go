package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrSlotInPast returned when the appointment start has already passed
	ErrSlotInPast = errors.New("domain: slot is in the past")

	// ErrTooLateToBook returned when the slot starts sooner than the minimum notice
	ErrTooLateToBook = errors.New("domain: too late to book this slot")

	// ErrDateTooFarInFuture returned when the slot is beyond the booking horizon
	ErrDateTooFarInFuture = errors.New("domain: date is too far in the future")
)

// BookingWindowPolicy notice and horizon rules applied to listing and booking
type BookingWindowPolicy struct {
	MinNoticeMinutes   int
	AdvanceBookingDays int // 0 = unlimited
}

// EarliestStart returns the earliest bookable start at now
func (p BookingWindowPolicy) EarliestStart(now time.Time) time.Time {
	return now.Add(time.Duration(p.MinNoticeMinutes) * time.Minute)
}

// IsDateBeyondHorizon reports whether the date lies past the booking horizon
func (p BookingWindowPolicy) IsDateBeyondHorizon(date, now time.Time) bool {
	if p.AdvanceBookingDays == 0 {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	maxDate := today.AddDate(0, 0, p.AdvanceBookingDays)
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, now.Location())
	return day.After(maxDate)
}

// Check validates an absolute appointment start against the policy
func (p BookingWindowPolicy) Check(startsAt, now time.Time) error {
	if !startsAt.After(now) {
		return ErrSlotInPast
	}
	if startsAt.Before(p.EarliestStart(now)) {
		return fmt.Errorf("%w: must book at least %d minutes in advance", ErrTooLateToBook, p.MinNoticeMinutes)
	}
	if p.IsDateBeyondHorizon(startsAt, now) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, p.AdvanceBookingDays)
	}
	return nil
}
