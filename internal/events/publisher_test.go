package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	"github.com/m04kA/SMC-ConsultationService/internal/testfixtures"
)

type fakeTransport struct {
	keys []string
	err  error
}

func (f *fakeTransport) PublishJSON(ctx context.Context, key string, v any) error {
	if f.err != nil {
		return f.err
	}
	f.keys = append(f.keys, key)
	return nil
}

type fakeMetrics struct {
	ok     map[string]int
	failed map[string]int
}

func (m *fakeMetrics) IncEventPublished(routingKey string, ok bool) {
	if ok {
		m.ok[routingKey]++
		return
	}
	m.failed[routingKey]++
}

func TestPublisher_Publish(t *testing.T) {
	transport := &fakeTransport{}
	metrics := &fakeMetrics{ok: map[string]int{}, failed: map[string]int{}}
	p := NewPublisher(transport, metrics, testfixtures.NopLogger{})

	require.NoError(t, p.Publish(context.Background(), domain.RKBookingCreated, domain.BookingEvent{BookingID: "b1"}))
	assert.Equal(t, []string{domain.RKBookingCreated}, transport.keys)
	assert.Equal(t, 1, metrics.ok[domain.RKBookingCreated])

	transport.err = errors.New("channel closed")
	err := p.Publish(context.Background(), domain.RKBookingCancelled, domain.BookingEvent{BookingID: "b1"})
	assert.ErrorIs(t, err, transport.err)
	assert.Equal(t, 1, metrics.failed[domain.RKBookingCancelled])
}

func TestPublisher_NilMetrics(t *testing.T) {
	p := NewPublisher(&fakeTransport{}, nil, testfixtures.NopLogger{})
	assert.NoError(t, p.Publish(context.Background(), domain.RKRefundComputed, domain.RefundComputedEvent{}))
}

func TestDecode(t *testing.T) {
	ev, err := Decode[domain.PaymentPaidEvent]([]byte(`{"booking_id":"b1","charge_id":"chrg_1","amount":3075,"currency":"INR"}`))
	require.NoError(t, err)
	assert.Equal(t, "b1", ev.BookingID)
	assert.Equal(t, int64(3075), ev.Amount)

	_, err = Decode[domain.PaymentPaidEvent]([]byte(`{`))
	assert.Error(t, err)
}

func TestDecode_PaymentFailedEvent(t *testing.T) {
	ev, err := Decode[domain.PaymentFailedEvent]([]byte(`{"booking_id":"b1","charge_id":"chrg_1","failure_code":"insufficient_fund"}`))
	require.NoError(t, err)
	assert.Equal(t, "b1", ev.BookingID)
	assert.Equal(t, "insufficient_fund", ev.FailureCode)

	// статус оплаты и payload события живут в одном пакете
	assert.Equal(t, domain.PaymentStatus("failed"), domain.PaymentFailed)
}
