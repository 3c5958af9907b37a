package domain

import "time"

// LeaseStatus state of a slot hold
type LeaseStatus string

const (
	LeaseActive   LeaseStatus = "active"
	LeaseReleased LeaseStatus = "released"
	LeaseExpired  LeaseStatus = "expired"
	LeaseConsumed LeaseStatus = "consumed"
)

// Lease a short-lived exclusive hold on a slot while the holder checks out
type Lease struct {
	ID              string
	Slot            SlotKey
	Tier            DurationTier
	DurationMinutes int
	HolderID        string
	CreatedAt       time.Time
	ExpiresAt       time.Time
	Status          LeaseStatus
}

// IsActiveAt reports whether the lease still holds the slot at now.
// Expiry is evaluated lazily: an Active lease past ExpiresAt is treated as expired.
func (l *Lease) IsActiveAt(now time.Time) bool {
	return l.Status == LeaseActive && !now.After(l.ExpiresAt)
}

// EffectiveStatus returns the status with lazy expiry applied
func (l *Lease) EffectiveStatus(now time.Time) LeaseStatus {
	if l.Status == LeaseActive && now.After(l.ExpiresAt) {
		return LeaseExpired
	}
	return l.Status
}

// Window returns the time window held by the lease
func (l *Lease) Window() (TimeWindow, error) {
	return l.Slot.Window(l.DurationMinutes)
}
