package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-ConsultationService/pkg/types"
)

// ErrInvalidSlotKey returned when a slot key is malformed
var ErrInvalidSlotKey = errors.New("domain: invalid slot key")

// DurationTier consultation length category
type DurationTier string

const (
	TierShort    DurationTier = "short"    // free first-time consultation
	TierStandard DurationTier = "standard" // paid consultation
)

// IsValid reports whether the tier is known
func (t DurationTier) IsValid() bool {
	return t == TierShort || t == TierStandard
}

// ParseDurationTier converts a string to a DurationTier
func ParseDurationTier(s string) (DurationTier, error) {
	tier := DurationTier(strings.ToLower(strings.TrimSpace(s)))
	if !tier.IsValid() {
		return "", fmt.Errorf("unknown duration tier %q", s)
	}
	return tier, nil
}

// SlotKey identifies an appointment start: provider, calendar date and start time.
// Comparable, so it is usable directly as a map key.
type SlotKey struct {
	ProviderID string
	Date       string // YYYY-MM-DD
	StartTime  types.TimeString
}

// NewSlotKey builds a SlotKey from a date and start time
func NewSlotKey(providerID string, date time.Time, start types.TimeString) SlotKey {
	return SlotKey{
		ProviderID: providerID,
		Date:       date.Format(DateFormat),
		StartTime:  start,
	}
}

// Validate checks every component of the key
func (k SlotKey) Validate() error {
	if strings.TrimSpace(k.ProviderID) == "" {
		return fmt.Errorf("%w: providerId is required", ErrInvalidSlotKey)
	}
	if _, err := time.Parse(DateFormat, k.Date); err != nil {
		return fmt.Errorf("%w: date %q must be YYYY-MM-DD", ErrInvalidSlotKey, k.Date)
	}
	if err := k.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: startTime %q must be HH:MM", ErrInvalidSlotKey, k.StartTime)
	}
	return nil
}

// ParseDate returns the date component as midnight in loc
func (k SlotKey) ParseDate(loc *time.Location) (time.Time, error) {
	d, err := time.ParseInLocation(DateFormat, k.Date, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrInvalidSlotKey, err)
	}
	return d, nil
}

// StartsAt returns the absolute appointment start in loc
func (k SlotKey) StartsAt(loc *time.Location) (time.Time, error) {
	d, err := k.ParseDate(loc)
	if err != nil {
		return time.Time{}, err
	}
	return k.StartTime.On(d, loc)
}

// Window returns the time window covered by a slot of the given width
func (k SlotKey) Window(minutes int) (TimeWindow, error) {
	end, err := k.StartTime.AddMinutes(minutes)
	if err != nil {
		return TimeWindow{}, fmt.Errorf("%w: %v", ErrInvalidSlotKey, err)
	}
	return TimeWindow{Start: k.StartTime, End: end}, nil
}

// SameDay reports whether two keys belong to the same provider calendar day
func (k SlotKey) SameDay(other SlotKey) bool {
	return k.ProviderID == other.ProviderID && k.Date == other.Date
}

func (k SlotKey) String() string {
	return fmt.Sprintf("%s/%s/%s", k.ProviderID, k.Date, k.StartTime)
}

// TimeWindow half-open interval [Start, End) within one day
type TimeWindow struct {
	Start types.TimeString
	End   types.TimeString
}

// Overlaps reports whether two windows share any time.
// Adjacent windows (one ends where the other starts) do not overlap.
func (w TimeWindow) Overlaps(other TimeWindow) bool {
	return w.Start.IsBefore(other.End) && w.End.IsAfter(other.Start)
}

// AvailableSlot a free window offered to clients
type AvailableSlot struct {
	Slot            SlotKey
	EndTime         types.TimeString
	DurationMinutes int
	Tier            DurationTier
}
