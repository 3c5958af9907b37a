package domain

import (
	"time"

	"github.com/m04kA/SMC-ConsultationService/pkg/types"
)

// ProviderAvailability working hours of a provider for one weekday.
// A weekday without a stored row falls back to the configured default hours.
type ProviderAvailability struct {
	ID         int64
	ProviderID string
	Weekday    time.Weekday
	StartTime  types.TimeString
	EndTime    types.TimeString
	IsActive   bool // false = provider does not work on this weekday
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsOpen returns true if the provider accepts bookings on this weekday
func (a *ProviderAvailability) IsOpen() bool {
	return a.IsActive && a.StartTime.IsBefore(a.EndTime)
}

// IsDefault returns true if the schedule was not stored and comes from configuration
func (a *ProviderAvailability) IsDefault() bool {
	return a.ID == 0
}

// Window returns the working window for the day
func (a *ProviderAvailability) Window() TimeWindow {
	return TimeWindow{Start: a.StartTime, End: a.EndTime}
}
