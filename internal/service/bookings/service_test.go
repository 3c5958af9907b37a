package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	"github.com/m04kA/SMC-ConsultationService/internal/service/bookings/models"
	"github.com/m04kA/SMC-ConsultationService/internal/testfixtures"
	"github.com/m04kA/SMC-ConsultationService/pkg/ptr"
	"github.com/m04kA/SMC-ConsultationService/pkg/types"
)

func seedBooking(store *testfixtures.BookingStore, clientID, date, start string, tier domain.DurationTier, status domain.BookingStatus) *domain.Booking {
	return store.Seed(&domain.Booking{
		ClientID:        clientID,
		ProviderID:      "P1",
		ServiceID:       "1",
		DurationTier:    tier,
		Slot:            domain.SlotKey{ProviderID: "P1", Date: date, StartTime: types.TimeString(start)},
		DurationMinutes: 30,
		Country:         "India",
		Currency:        "INR",
		Amount:          3075,
		PaymentStatus:   domain.PaymentCompleted,
		Status:          status,
	})
}

func newTestService() (*Service, *testfixtures.BookingStore, *testfixtures.Clock) {
	clock := testfixtures.NewClock(time.Time{}) // 2025-03-10 09:00 IST
	store := testfixtures.NewBookingStore(clock.Now)
	return NewService(store, clock, testfixtures.IST, testfixtures.NopLogger{}), store, clock
}

func TestGetByID_Access(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()
	b := seedBooking(store, "C1", "2025-03-12", "10:00", domain.TierStandard, domain.StatusConfirmed)

	resp, err := svc.GetByID(ctx, b.ID, "C1")
	require.NoError(t, err)
	assert.Equal(t, b.ID, resp.ID)
	assert.Equal(t, "10:30", resp.EndTime)
	assert.Equal(t, "confirmed", resp.Status)

	_, err = svc.GetByID(ctx, b.ID, "P1")
	assert.NoError(t, err)

	_, err = svc.GetByID(ctx, b.ID, "C2")
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.GetByID(ctx, "missing", "C1")
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestGetClientBookings_EffectiveStatus(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()

	past := seedBooking(store, "C1", "2025-03-09", "10:00", domain.TierStandard, domain.StatusConfirmed)
	future := seedBooking(store, "C1", "2025-03-12", "10:00", domain.TierStandard, domain.StatusConfirmed)
	seedBooking(store, "C2", "2025-03-12", "11:00", domain.TierStandard, domain.StatusConfirmed)

	resp, err := svc.GetClientBookings(ctx, &models.GetClientBookingsRequest{ClientID: "C1"})
	require.NoError(t, err)
	require.Len(t, resp.Bookings, 2)
	assert.Equal(t, future.ID, resp.Bookings[0].ID)
	assert.Equal(t, "confirmed", resp.Bookings[0].Status)
	assert.Equal(t, past.ID, resp.Bookings[1].ID)
	assert.Equal(t, "completed", resp.Bookings[1].Status)

	resp, err = svc.GetClientBookings(ctx, &models.GetClientBookingsRequest{ClientID: "C1", Status: ptr.Ptr("completed")})
	require.NoError(t, err)
	require.Len(t, resp.Bookings, 1)
	assert.Equal(t, past.ID, resp.Bookings[0].ID)

	_, err = svc.GetClientBookings(ctx, &models.GetClientBookingsRequest{ClientID: "C1", Status: ptr.Ptr("archived")})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetProviderBookings(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()

	seedBooking(store, "C1", "2025-03-12", "10:00", domain.TierStandard, domain.StatusConfirmed)
	seedBooking(store, "C2", "2025-03-12", "11:00", domain.TierStandard, domain.StatusCancelled)
	seedBooking(store, "C3", "2025-03-20", "11:00", domain.TierStandard, domain.StatusPending)

	_, err := svc.GetProviderBookings(ctx, &models.GetProviderBookingsRequest{UserID: "C1", ProviderID: "P1"})
	assert.ErrorIs(t, err, ErrAccessDenied)

	resp, err := svc.GetProviderBookings(ctx, &models.GetProviderBookingsRequest{UserID: "P1", ProviderID: "P1"})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 2)

	day := time.Date(2025, 3, 12, 0, 0, 0, 0, testfixtures.IST)
	resp, err = svc.GetProviderBookings(ctx, &models.GetProviderBookingsRequest{
		UserID: "P1", ProviderID: "P1", StartDate: &day, EndDate: &day, IncludeInactive: true,
	})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 2)

	resp, err = svc.GetProviderBookings(ctx, &models.GetProviderBookingsRequest{
		UserID: "P1", ProviderID: "P1", Status: ptr.Ptr("cancelled"),
	})
	require.NoError(t, err)
	require.Len(t, resp.Bookings, 1)
	assert.Equal(t, "C2", resp.Bookings[0].ClientID)
}

func TestEligibility(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()

	resp, err := svc.Eligibility(ctx, "C1")
	require.NoError(t, err)
	assert.True(t, resp.FreeTierEligible)

	// Отмененная short-бронь тоже расходует право
	seedBooking(store, "C1", "2025-03-12", "10:00", domain.TierShort, domain.StatusCancelled)

	first, err := svc.IsFirstTime(ctx, "C1")
	require.NoError(t, err)
	assert.False(t, first)

	_, err = svc.Eligibility(ctx, " ")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
