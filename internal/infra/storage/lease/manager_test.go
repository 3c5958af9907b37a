package lease

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	"github.com/m04kA/SMC-ConsultationService/internal/testfixtures"
	"github.com/m04kA/SMC-ConsultationService/pkg/types"
)

type countingMetrics struct {
	mu       sync.Mutex
	results  map[string]int
	timeouts int
	swept    int
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{results: make(map[string]int)}
}

func (m *countingMetrics) IncLeaseAcquisition(result string) {
	m.mu.Lock()
	m.results[result]++
	m.mu.Unlock()
}

func (m *countingMetrics) IncLockTimeout() {
	m.mu.Lock()
	m.timeouts++
	m.mu.Unlock()
}

func (m *countingMetrics) AddLeasesSwept(n int) {
	m.mu.Lock()
	m.swept += n
	m.mu.Unlock()
}

func slotAt(start string) domain.SlotKey {
	return domain.SlotKey{ProviderID: "P1", Date: "2025-03-01", StartTime: types.TimeString(start)}
}

func newTestManager(t *testing.T) (*Manager, *testfixtures.Clock, *testfixtures.BookingStore, *countingMetrics) {
	t.Helper()

	clock := testfixtures.NewClock(time.Date(2025, 2, 28, 12, 0, 0, 0, testfixtures.IST))
	store := testfixtures.NewBookingStore(clock.Now)
	metrics := newCountingMetrics()
	m := NewManager(Config{
		TTL:      5 * time.Minute,
		LockWait: 50 * time.Millisecond,
	}, clock, NewBookingOccupancy(store), metrics, testfixtures.NopLogger{})

	return m, clock, store, metrics
}

func TestAcquire_ScenarioE(t *testing.T) {
	m, clock, _, _ := newTestManager(t)
	ctx := context.Background()
	slot := slotAt("10:00")

	leaseA, err := m.Acquire(ctx, slot, domain.TierStandard, "A")
	require.NoError(t, err)
	assert.Equal(t, domain.LeaseActive, leaseA.Status)
	assert.Equal(t, clock.Now().Add(5*time.Minute), leaseA.ExpiresAt)

	_, err = m.Acquire(ctx, slot, domain.TierStandard, "B")
	assert.ErrorIs(t, err, ErrRejected)

	// Ровно в момент истечения аренда еще действует
	clock.Advance(5 * time.Minute)
	_, err = m.Acquire(ctx, slot, domain.TierStandard, "B")
	assert.ErrorIs(t, err, ErrRejected)

	clock.Advance(time.Second)
	leaseB, err := m.Acquire(ctx, slot, domain.TierStandard, "B")
	require.NoError(t, err)
	assert.Equal(t, "B", leaseB.HolderID)
	assert.NotEqual(t, leaseA.ID, leaseB.ID)
}

func TestAcquire_ConcurrentSameKeyExactlyOneWins(t *testing.T) {
	m, _, _, _ := newTestManager(t)
	m.cfg.LockWait = 2 * time.Second
	ctx := context.Background()
	slot := slotAt("11:00")

	const holders = 32
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		acquired int
		rejected int
	)

	start := make(chan struct{})
	for i := 0; i < holders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, err := m.Acquire(ctx, slot, domain.TierStandard, string(rune('a'+i)))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				acquired++
			case errors.Is(err, ErrRejected):
				rejected++
			}
		}(i)
	}
	close(start)
	wg.Wait()

	assert.Equal(t, 1, acquired)
	assert.Equal(t, holders-1, rejected)
	assert.Equal(t, 0, m.cells.size())
}

func TestAcquire_SameHolderRefreshesLease(t *testing.T) {
	m, clock, _, metrics := newTestManager(t)
	ctx := context.Background()
	slot := slotAt("10:00")

	first, err := m.Acquire(ctx, slot, domain.TierStandard, "A")
	require.NoError(t, err)

	clock.Advance(3 * time.Minute)
	second, err := m.Acquire(ctx, slot, domain.TierStandard, "A")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, clock.Now().Add(5*time.Minute), second.ExpiresAt)
	assert.Equal(t, 1, metrics.results[ResultAcquired])
	assert.Equal(t, 1, metrics.results[ResultRefreshed])
}

func TestAcquire_CrossTierOverlap(t *testing.T) {
	m, _, _, _ := newTestManager(t)
	ctx := context.Background()

	_, err := m.Acquire(ctx, slotAt("10:00"), domain.TierStandard, "A")
	require.NoError(t, err)

	// 10:15-10:30 лежит внутри 10:00-10:30
	_, err = m.Acquire(ctx, slotAt("10:15"), domain.TierShort, "B")
	assert.ErrorIs(t, err, ErrRejected)

	// Смежные окна не пересекаются
	_, err = m.Acquire(ctx, slotAt("10:30"), domain.TierShort, "B")
	assert.NoError(t, err)
	_, err = m.Acquire(ctx, slotAt("09:45"), domain.TierShort, "C")
	assert.NoError(t, err)
}

func TestAcquire_SameHolderOverlappingKeyReplaced(t *testing.T) {
	m, _, _, _ := newTestManager(t)
	ctx := context.Background()

	_, err := m.Acquire(ctx, slotAt("10:00"), domain.TierStandard, "A")
	require.NoError(t, err)

	_, err = m.Acquire(ctx, slotAt("10:15"), domain.TierStandard, "A")
	require.NoError(t, err)

	assert.False(t, m.IsHeld(slotAt("10:00")))
	assert.True(t, m.IsHeld(slotAt("10:15")))
}

func TestAcquire_RejectedWhenBookingOccupiesWindow(t *testing.T) {
	m, clock, store, metrics := newTestManager(t)
	ctx := context.Background()

	store.Seed(&domain.Booking{
		ClientID:        "X",
		ProviderID:      "P1",
		DurationTier:    domain.TierStandard,
		Slot:            slotAt("10:00"),
		DurationMinutes: 30,
		Status:          domain.StatusConfirmed,
		PaymentStatus:   domain.PaymentCompleted,
	})

	_, err := m.Acquire(ctx, slotAt("10:15"), domain.TierShort, "A")
	assert.ErrorIs(t, err, ErrRejected)
	assert.ErrorIs(t, err, ErrSlotOccupied)
	assert.Equal(t, 1, metrics.results[ResultOccupied])

	// Бронирование занимает слот и после истечения любых аренд
	clock.Advance(time.Hour)
	_, err = m.Acquire(ctx, slotAt("10:00"), domain.TierStandard, "A")
	assert.ErrorIs(t, err, ErrSlotOccupied)
}

func TestAcquire_InvalidInput(t *testing.T) {
	m, _, _, _ := newTestManager(t)
	ctx := context.Background()

	_, err := m.Acquire(ctx, slotAt("10:00"), domain.TierStandard, "")
	assert.ErrorIs(t, err, ErrInvalidSlot)

	_, err = m.Acquire(ctx, slotAt("10:00"), domain.DurationTier("long"), "A")
	assert.ErrorIs(t, err, ErrInvalidSlot)

	_, err = m.Acquire(ctx, slotAt("25:00"), domain.TierStandard, "A")
	assert.ErrorIs(t, err, ErrInvalidSlot)

	_, err = m.Acquire(ctx, domain.SlotKey{ProviderID: "P1", Date: "01.03.2025", StartTime: "10:00"}, domain.TierStandard, "A")
	assert.ErrorIs(t, err, ErrInvalidSlot)
}

func TestRelease(t *testing.T) {
	m, _, _, _ := newTestManager(t)
	ctx := context.Background()
	slot := slotAt("10:00")

	// Нет аренды: не ошибка
	require.NoError(t, m.Release(ctx, slot, "A"))

	_, err := m.Acquire(ctx, slot, domain.TierStandard, "A")
	require.NoError(t, err)

	// Чужой клиент не может снять аренду
	require.NoError(t, m.Release(ctx, slot, "B"))
	assert.True(t, m.IsHeld(slot))

	require.NoError(t, m.Release(ctx, slot, "A"))
	assert.False(t, m.IsHeld(slot))
	require.NoError(t, m.Release(ctx, slot, "A"))

	_, err = m.Acquire(ctx, slot, domain.TierStandard, "B")
	assert.NoError(t, err)
}

func TestGet_LazyExpiry(t *testing.T) {
	m, clock, _, _ := newTestManager(t)
	slot := slotAt("10:00")

	_, err := m.Acquire(context.Background(), slot, domain.TierStandard, "A")
	require.NoError(t, err)

	l, ok := m.Get(slot)
	require.True(t, ok)
	assert.Equal(t, "A", l.HolderID)

	clock.Advance(6 * time.Minute)
	_, ok = m.Get(slot)
	assert.False(t, ok)
	assert.False(t, m.IsHeld(slot))
}

func TestConsume(t *testing.T) {
	m, clock, _, _ := newTestManager(t)
	ctx := context.Background()
	slot := slotAt("10:00")

	noop := func(ctx context.Context, l domain.Lease) error { return nil }

	assert.ErrorIs(t, m.Consume(ctx, slot, "A", noop), ErrLeaseNotHeld)

	_, err := m.Acquire(ctx, slot, domain.TierStandard, "A")
	require.NoError(t, err)

	assert.ErrorIs(t, m.Consume(ctx, slot, "B", noop), ErrLeaseNotHeld)

	// Ошибка fn оставляет аренду активной
	boom := errors.New("insert failed")
	err = m.Consume(ctx, slot, "A", func(ctx context.Context, l domain.Lease) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.True(t, m.IsHeld(slot))

	var seen domain.Lease
	err = m.Consume(ctx, slot, "A", func(ctx context.Context, l domain.Lease) error {
		seen = l
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "A", seen.HolderID)
	assert.Equal(t, 30, seen.DurationMinutes)
	assert.False(t, m.IsHeld(slot))

	// Истекшая аренда не может быть использована
	_, err = m.Acquire(ctx, slotAt("12:00"), domain.TierStandard, "A")
	require.NoError(t, err)
	clock.Advance(10 * time.Minute)
	assert.ErrorIs(t, m.Consume(ctx, slotAt("12:00"), "A", noop), ErrLeaseNotHeld)
}

func TestLockContentionTimeout(t *testing.T) {
	m, _, _, metrics := newTestManager(t)
	ctx := context.Background()
	slot := slotAt("10:00")

	locked := make(chan struct{})
	done := make(chan struct{})
	go func() {
		_ = m.WithSlotLock(ctx, slot, 30, func(ctx context.Context) error {
			close(locked)
			<-done
			return nil
		})
	}()
	<-locked

	_, err := m.Acquire(ctx, slotAt("10:15"), domain.TierShort, "B")
	assert.ErrorIs(t, err, ErrLockContentionTimeout)
	assert.Equal(t, 1, metrics.timeouts)

	// Непересекающееся окно не блокируется
	_, err = m.Acquire(ctx, slotAt("11:00"), domain.TierStandard, "B")
	assert.NoError(t, err)

	close(done)
}

func TestLockRespectsContext(t *testing.T) {
	m, _, _, _ := newTestManager(t)
	m.cfg.LockWait = 5 * time.Second
	slot := slotAt("10:00")

	locked := make(chan struct{})
	done := make(chan struct{})
	go func() {
		_ = m.WithSlotLock(context.Background(), slot, 30, func(ctx context.Context) error {
			close(locked)
			<-done
			return nil
		})
	}()
	<-locked

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := m.Acquire(ctx, slot, domain.TierStandard, "B")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(done)
}

func TestActiveLeasesAndSweep(t *testing.T) {
	m, clock, _, _ := newTestManager(t)
	ctx := context.Background()

	_, err := m.Acquire(ctx, slotAt("14:00"), domain.TierStandard, "A")
	require.NoError(t, err)
	clock.Advance(2 * time.Minute)
	_, err = m.Acquire(ctx, slotAt("10:00"), domain.TierShort, "B")
	require.NoError(t, err)

	active := m.ActiveLeases("P1", "2025-03-01", clock.Now())
	require.Len(t, active, 2)
	assert.Equal(t, types.TimeString("10:00"), active[0].Slot.StartTime)
	assert.Equal(t, types.TimeString("14:00"), active[1].Slot.StartTime)

	clock.Advance(4 * time.Minute)
	assert.Len(t, m.ActiveLeases("P1", "2025-03-01", clock.Now()), 1)

	assert.Equal(t, 1, m.Sweep(clock.Now()))
	assert.Equal(t, 0, m.Sweep(clock.Now()))

	clock.Advance(time.Hour)
	assert.Equal(t, 1, m.Sweep(clock.Now()))
	assert.Empty(t, m.leases)
}

func TestCellWidth(t *testing.T) {
	assert.Equal(t, 15, cellWidth(map[domain.DurationTier]int{domain.TierShort: 15, domain.TierStandard: 30}))
	assert.Equal(t, 5, cellWidth(map[domain.DurationTier]int{domain.TierShort: 10, domain.TierStandard: 45}))
	assert.Equal(t, 1, cellWidth(nil))
}
