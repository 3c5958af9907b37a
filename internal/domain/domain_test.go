package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ist = time.FixedZone("IST", 5*3600+1800)

func TestTimeWindow_Overlaps(t *testing.T) {
	w := TimeWindow{Start: "10:00", End: "10:30"}

	assert.True(t, w.Overlaps(TimeWindow{Start: "10:15", End: "10:30"}))
	assert.True(t, w.Overlaps(TimeWindow{Start: "09:45", End: "10:15"}))
	assert.True(t, w.Overlaps(TimeWindow{Start: "10:00", End: "10:15"}))
	assert.False(t, w.Overlaps(TimeWindow{Start: "10:30", End: "11:00"}))
	assert.False(t, w.Overlaps(TimeWindow{Start: "09:30", End: "10:00"}))
}

func TestSlotKey_Validate(t *testing.T) {
	assert.NoError(t, SlotKey{ProviderID: "p1", Date: "2025-03-10", StartTime: "10:00"}.Validate())
	assert.ErrorIs(t, SlotKey{Date: "2025-03-10", StartTime: "10:00"}.Validate(), ErrInvalidSlotKey)
	assert.ErrorIs(t, SlotKey{ProviderID: "p1", Date: "10.03.2025", StartTime: "10:00"}.Validate(), ErrInvalidSlotKey)
	assert.ErrorIs(t, SlotKey{ProviderID: "p1", Date: "2025-03-10", StartTime: "10"}.Validate(), ErrInvalidSlotKey)
}

func TestSlotKey_IsComparable(t *testing.T) {
	a := SlotKey{ProviderID: "p1", Date: "2025-03-10", StartTime: "10:00"}
	b := SlotKey{ProviderID: "p1", Date: "2025-03-10", StartTime: "10:00"}
	c := SlotKey{ProviderID: "p1", Date: "2025-03-10", StartTime: "10:30"}

	m := map[SlotKey]int{a: 1}
	m[b]++
	m[c]++

	assert.Equal(t, 2, m[a])
	assert.Len(t, m, 2)
}

func TestBooking_EffectiveStatus(t *testing.T) {
	b := &Booking{
		Slot:            SlotKey{ProviderID: "p1", Date: "2025-03-10", StartTime: "10:00"},
		DurationMinutes: 30,
		Status:          StatusConfirmed,
	}

	before := time.Date(2025, 3, 10, 10, 15, 0, 0, ist)
	after := time.Date(2025, 3, 10, 10, 30, 0, 0, ist)

	assert.Equal(t, StatusConfirmed, b.EffectiveStatus(before, ist))
	assert.True(t, b.CanBeCancelled(before, ist))

	assert.Equal(t, StatusCompleted, b.EffectiveStatus(after, ist))
	assert.False(t, b.CanBeCancelled(after, ist))

	b.Status = StatusPending
	assert.Equal(t, StatusPending, b.EffectiveStatus(after, ist))
}

func TestLease_IsActiveAt(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, ist)
	l := &Lease{Status: LeaseActive, ExpiresAt: now.Add(5 * time.Minute)}

	assert.True(t, l.IsActiveAt(now))
	assert.True(t, l.IsActiveAt(now.Add(5*time.Minute)))
	assert.False(t, l.IsActiveAt(now.Add(5*time.Minute+time.Nanosecond)))
	assert.Equal(t, LeaseActive, l.EffectiveStatus(now.Add(5*time.Minute)))
	assert.Equal(t, LeaseExpired, l.EffectiveStatus(now.Add(5*time.Minute+time.Second)))

	l.Status = LeaseConsumed
	assert.False(t, l.IsActiveAt(now))
}

func TestBookingWindowPolicy_Check(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, ist)
	p := BookingWindowPolicy{MinNoticeMinutes: 60, AdvanceBookingDays: 30}

	assert.ErrorIs(t, p.Check(now.Add(-time.Minute), now), ErrSlotInPast)
	assert.ErrorIs(t, p.Check(now.Add(59*time.Minute), now), ErrTooLateToBook)
	assert.NoError(t, p.Check(now.Add(60*time.Minute), now))
	assert.ErrorIs(t, p.Check(now.AddDate(0, 0, 31), now), ErrDateTooFarInFuture)
	assert.NoError(t, p.Check(now.AddDate(0, 0, 30), now))
}

func TestParseDurationTier(t *testing.T) {
	tier, err := ParseDurationTier(" Standard ")
	require.NoError(t, err)
	assert.Equal(t, TierStandard, tier)

	_, err = ParseDurationTier("long")
	assert.Error(t, err)
}
