package get_provider_bookings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToServiceRequest(t *testing.T) {
	t.Run("single day", func(t *testing.T) {
		req, err := ToServiceRequest("p1", "p1", "confirmed", "2025-03-11", "", "", "")
		require.NoError(t, err)
		require.NotNil(t, req.StartDate)
		require.NotNil(t, req.EndDate)
		assert.Equal(t, *req.StartDate, *req.EndDate)
		require.NotNil(t, req.Status)
		assert.Equal(t, "confirmed", *req.Status)
		assert.False(t, req.IncludeInactive)
	})

	t.Run("period", func(t *testing.T) {
		req, err := ToServiceRequest("p1", "p1", "", "", "2025-03-01", "2025-03-31", "true")
		require.NoError(t, err)
		assert.Equal(t, "2025-03-01", req.StartDate.Format("2006-01-02"))
		assert.Equal(t, "2025-03-31", req.EndDate.Format("2006-01-02"))
		assert.True(t, req.IncludeInactive)
		assert.Nil(t, req.Status)
	})

	invalid := []struct {
		name                              string
		date, start, end, includeInactive string
	}{
		{name: "bad date", date: "11-03-2025"},
		{name: "date with period", date: "2025-03-11", start: "2025-03-01"},
		{name: "bad start", start: "x"},
		{name: "bad end", end: "2025-02-30"},
		{name: "bad flag", includeInactive: "maybe"},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ToServiceRequest("p1", "p1", "", tt.date, tt.start, tt.end, tt.includeInactive)
			assert.Error(t, err)
		})
	}
}
