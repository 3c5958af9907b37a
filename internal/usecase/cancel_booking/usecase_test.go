package cancel_booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	"github.com/m04kA/SMC-ConsultationService/internal/infra/storage/lease"
	"github.com/m04kA/SMC-ConsultationService/internal/service/refund"
	"github.com/m04kA/SMC-ConsultationService/internal/testfixtures"
	"github.com/m04kA/SMC-ConsultationService/pkg/types"
)

type fakeMetrics struct {
	cancelled int
	refunds   []int
}

func (m *fakeMetrics) IncBookingCancelled() {
	m.cancelled++
}

func (m *fakeMetrics) IncRefundComputed(percentage int) {
	m.refunds = append(m.refunds, percentage)
}

type testEnv struct {
	uc        *UseCase
	clock     *testfixtures.Clock
	store     *testfixtures.BookingStore
	leases    *lease.Manager
	publisher *testfixtures.RecordingPublisher
	metrics   *fakeMetrics
}

// Часы: 2025-03-10 09:00 IST
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	clock := testfixtures.NewClock(testfixtures.ReferenceTime())
	store := testfixtures.NewBookingStore(clock.Now)
	leases := lease.NewManager(lease.Config{LockWait: 50 * time.Millisecond}, clock,
		lease.NewBookingOccupancy(store), nil, testfixtures.NopLogger{})
	publisher := &testfixtures.RecordingPublisher{}
	metrics := &fakeMetrics{}

	uc := NewUseCase(store, leases, refund.NewEvaluator(), &testfixtures.TxManager{}, publisher, metrics,
		testfixtures.IST, testfixtures.NopLogger{}).WithTimeProvider(clock)

	return &testEnv{uc: uc, clock: clock, store: store, leases: leases, publisher: publisher, metrics: metrics}
}

func (e *testEnv) seed(date, start string, tier domain.DurationTier, status domain.BookingStatus, payment domain.PaymentStatus) *domain.Booking {
	minutes, amount := 30, int64(3075)
	if tier == domain.TierShort {
		minutes, amount = 15, 0
	}
	return e.store.Seed(&domain.Booking{
		ClientID:        "C1",
		ProviderID:      "P1",
		ServiceID:       "1",
		DurationTier:    tier,
		Slot:            domain.SlotKey{ProviderID: "P1", Date: date, StartTime: types.TimeString(start)},
		DurationMinutes: minutes,
		Amount:          amount,
		Currency:        "INR",
		Status:          status,
		PaymentStatus:   payment,
	})
}

func TestExecute_ConfirmedThirtyHoursAheadFullRefund(t *testing.T) {
	env := newTestEnv(t)
	// 2025-03-11 15:00 - через 30 часов
	b := env.seed("2025-03-11", "15:00", domain.TierStandard, domain.StatusConfirmed, domain.PaymentCompleted)

	resp, err := env.uc.Execute(context.Background(), &Request{BookingID: b.ID, ClientID: "C1"})
	require.NoError(t, err)

	assert.True(t, resp.Refund.Eligible)
	assert.Equal(t, 100, resp.Refund.Percentage)
	assert.Equal(t, int64(3075), resp.Refund.Amount)
	assert.Equal(t, domain.StatusCancelled, resp.Booking.Status)

	stored, err := env.store.GetByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, stored.Status)
	require.NotNil(t, stored.Refund)
	assert.Equal(t, 100, stored.Refund.Percentage)
	require.NotNil(t, stored.CancelledAt)
	assert.True(t, stored.CancelledAt.Equal(testfixtures.ReferenceTime()))

	assert.Equal(t, []string{domain.RKBookingCancelled, domain.RKRefundComputed}, env.publisher.Keys())
	assert.Equal(t, 1, env.metrics.cancelled)
	assert.Equal(t, []int{100}, env.metrics.refunds)
}

func TestExecute_RefundTiers(t *testing.T) {
	tests := []struct {
		name     string
		date     string
		start    string
		tier     domain.DurationTier
		payment  domain.PaymentStatus
		eligible bool
		percent  int
		amount   int64
		reason   string
	}{
		{name: "exactly 24h", date: "2025-03-11", start: "09:00", tier: domain.TierStandard, payment: domain.PaymentCompleted, eligible: true, percent: 100, amount: 3075, reason: domain.RefundReasonFull},
		{name: "18h partial", date: "2025-03-11", start: "03:00", tier: domain.TierStandard, payment: domain.PaymentCompleted, eligible: true, percent: 50, amount: 1538, reason: domain.RefundReasonPartial},
		{name: "exactly 12h", date: "2025-03-10", start: "21:00", tier: domain.TierStandard, payment: domain.PaymentCompleted, eligible: true, percent: 50, amount: 1538, reason: domain.RefundReasonPartial},
		{name: "under 12h", date: "2025-03-10", start: "20:30", tier: domain.TierStandard, payment: domain.PaymentCompleted, eligible: false, percent: 0, amount: 0, reason: domain.RefundReasonTooLate},
		{name: "unpaid", date: "2025-03-12", start: "10:00", tier: domain.TierStandard, payment: domain.PaymentPending, eligible: false, percent: 0, amount: 0, reason: domain.RefundReasonNoPayment},
		{name: "free", date: "2025-03-12", start: "10:00", tier: domain.TierShort, payment: domain.PaymentCompleted, eligible: false, percent: 0, amount: 0, reason: domain.RefundReasonFreeConsultation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			status := domain.StatusConfirmed
			if tt.payment == domain.PaymentPending {
				status = domain.StatusPending
			}
			b := env.seed(tt.date, tt.start, tt.tier, status, tt.payment)

			resp, err := env.uc.Execute(context.Background(), &Request{BookingID: b.ID, ClientID: "C1"})
			require.NoError(t, err)
			assert.Equal(t, tt.eligible, resp.Refund.Eligible)
			assert.Equal(t, tt.percent, resp.Refund.Percentage)
			assert.Equal(t, tt.amount, resp.Refund.Amount)
			assert.Equal(t, tt.reason, resp.Refund.Reason)

			assert.Equal(t, []string{domain.RKBookingCancelled, domain.RKRefundComputed}, env.publisher.Keys())
		})
	}
}

func TestExecute_ZeroRefundStillPublished(t *testing.T) {
	env := newTestEnv(t)
	// 2025-03-10 20:30 - меньше 12 часов
	b := env.seed("2025-03-10", "20:30", domain.TierStandard, domain.StatusConfirmed, domain.PaymentCompleted)

	_, err := env.uc.Execute(context.Background(), &Request{BookingID: b.ID, ClientID: "C1"})
	require.NoError(t, err)

	events := env.publisher.Events()
	require.Len(t, events, 2)

	cancelled, ok := events[0].Payload.(domain.BookingEvent)
	require.True(t, ok)
	assert.Equal(t, domain.RKBookingCancelled, events[0].RoutingKey)
	require.NotNil(t, cancelled.Refund)
	assert.False(t, cancelled.Refund.Eligible)
	assert.Equal(t, 0, cancelled.Refund.Percentage)
	assert.Equal(t, domain.RefundReasonTooLate, cancelled.Refund.Reason)

	computed, ok := events[1].Payload.(domain.RefundComputedEvent)
	require.True(t, ok)
	assert.Equal(t, domain.RKRefundComputed, events[1].RoutingKey)
	assert.Equal(t, b.ID, computed.BookingID)
	assert.False(t, computed.Eligible)
	assert.Equal(t, 0, computed.Percentage)
	assert.Equal(t, int64(0), computed.Amount)

	assert.Equal(t, []int{0}, env.metrics.refunds)
}

func TestExecute_WindowReappearsAfterCancellation(t *testing.T) {
	env := newTestEnv(t)
	b := env.seed("2025-03-11", "10:00", domain.TierStandard, domain.StatusPending, domain.PaymentPending)
	slot := b.Slot

	_, err := env.leases.Acquire(context.Background(), slot, domain.TierStandard, "C2")
	require.ErrorIs(t, err, lease.ErrRejected)

	_, err = env.uc.Execute(context.Background(), &Request{BookingID: b.ID, ClientID: "C1"})
	require.NoError(t, err)

	_, err = env.leases.Acquire(context.Background(), slot, domain.TierStandard, "C2")
	assert.NoError(t, err)
}

func TestExecute_InvalidTransitions(t *testing.T) {
	env := newTestEnv(t)

	cancelled := env.seed("2025-03-11", "10:00", domain.TierStandard, domain.StatusCancelled, domain.PaymentCompleted)
	_, err := env.uc.Execute(context.Background(), &Request{BookingID: cancelled.ID, ClientID: "C1"})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// Консультация уже прошла: confirmed считается completed
	past := env.seed("2025-03-09", "10:00", domain.TierStandard, domain.StatusConfirmed, domain.PaymentCompleted)
	_, err = env.uc.Execute(context.Background(), &Request{BookingID: past.ID, ClientID: "C1"})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// Отмена дважды
	b := env.seed("2025-03-12", "10:00", domain.TierStandard, domain.StatusConfirmed, domain.PaymentCompleted)
	_, err = env.uc.Execute(context.Background(), &Request{BookingID: b.ID, ClientID: "C1"})
	require.NoError(t, err)
	_, err = env.uc.Execute(context.Background(), &Request{BookingID: b.ID, ClientID: "C1"})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	assert.Equal(t, 1, env.metrics.cancelled)
}

func TestExecute_OnlyOwnerCanCancel(t *testing.T) {
	env := newTestEnv(t)
	b := env.seed("2025-03-11", "10:00", domain.TierStandard, domain.StatusConfirmed, domain.PaymentCompleted)

	_, err := env.uc.Execute(context.Background(), &Request{BookingID: b.ID, ClientID: "C2"})
	assert.ErrorIs(t, err, ErrAccessDenied)

	stored, err := env.store.GetByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, stored.Status)
}

func TestExecute_NotFoundAndInvalidInput(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.uc.Execute(context.Background(), &Request{BookingID: "missing", ClientID: "C1"})
	assert.ErrorIs(t, err, ErrBookingNotFound)

	_, err = env.uc.Execute(context.Background(), &Request{BookingID: "", ClientID: "C1"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = env.uc.Execute(context.Background(), &Request{BookingID: "x", ClientID: ""})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_PublishFailureDoesNotFailCancellation(t *testing.T) {
	env := newTestEnv(t)
	env.publisher.Err = errors.New("broker down")
	b := env.seed("2025-03-11", "15:00", domain.TierStandard, domain.StatusConfirmed, domain.PaymentCompleted)

	resp, err := env.uc.Execute(context.Background(), &Request{BookingID: b.ID, ClientID: "C1"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, resp.Booking.Status)
}
