package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := New("consultation-service", prometheus.NewRegistry())

	m.IncLeaseAcquisition("acquired")
	m.IncLeaseAcquisition("acquired")
	m.IncLeaseAcquisition("rejected")
	m.IncPricingMismatch()
	m.IncRefundComputed(50)
	m.ObserveHTTPRequest("GET", "/api/v1/bookings/{bookingId}", 200, 15*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.LeaseAcquisitions.WithLabelValues("acquired")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LeaseAcquisitions.WithLabelValues("rejected")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PricingMismatches))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RefundsComputed.WithLabelValues("50")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/bookings/{bookingId}", "200")))
}

func TestMetrics_NilReceiverIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.IncLeaseAcquisition("acquired")
		m.IncBookingCreated("standard")
		m.IncPricingMismatch()
		m.SetDBPoolStats(1, 1, 0, 0)
		m.ObserveDBQuery("query", time.Millisecond)
		m.IncEventPublished("booking.created", true)
	})
}
