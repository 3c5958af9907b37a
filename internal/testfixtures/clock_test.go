package testfixtures

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClockDefaultsToReferenceTime(t *testing.T) {
	clock := NewClock(time.Time{})
	assert.True(t, clock.Now().Equal(ReferenceTime()))
}

func TestClockAdvanceAndSet(t *testing.T) {
	start := time.Date(2025, time.March, 1, 10, 0, 0, 0, IST)
	clock := NewClock(start)

	updated := clock.Advance(5 * time.Minute)
	assert.True(t, updated.Equal(start.Add(5*time.Minute)))

	clock.Set(start.Add(2 * time.Hour))
	assert.True(t, clock.Now().Equal(start.Add(2*time.Hour)))
}
