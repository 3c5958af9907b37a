package confirm_payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	"github.com/m04kA/SMC-ConsultationService/internal/testfixtures"
	confirmPayment "github.com/m04kA/SMC-ConsultationService/internal/usecase/confirm_payment"
	"github.com/m04kA/SMC-ConsultationService/pkg/types"
)

const bookingID = "6f1c2a4e-7d5b-4c1a-9e3f-0a1b2c3d4e5f"

type paymentStub struct {
	confirmed []*confirmPayment.Request
	failed    []*confirmPayment.Request
	err       error
}

func (s *paymentStub) Execute(ctx context.Context, req *confirmPayment.Request) (*confirmPayment.Response, error) {
	s.confirmed = append(s.confirmed, req)
	return s.result(domain.PaymentCompleted, domain.StatusConfirmed)
}

func (s *paymentStub) MarkFailed(ctx context.Context, req *confirmPayment.Request) (*confirmPayment.Response, error) {
	s.failed = append(s.failed, req)
	return s.result(domain.PaymentFailed, domain.StatusPending)
}

func (s *paymentStub) result(ps domain.PaymentStatus, st domain.BookingStatus) (*confirmPayment.Response, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &confirmPayment.Response{
		Booking: &domain.Booking{
			ID:              bookingID,
			DurationTier:    domain.TierStandard,
			Slot:            domain.SlotKey{ProviderID: "p1", Date: "2099-01-01", StartTime: types.TimeString("10:00")},
			DurationMinutes: 30,
			PaymentStatus:   ps,
			Status:          st,
		},
		Changed: true,
	}, nil
}

func newRouter(uc PaymentUseCase) *mux.Router {
	h := NewHandler(uc, testfixtures.IST, testfixtures.NopLogger{})
	r := mux.NewRouter()
	r.HandleFunc("/internal/payments/{bookingId}/confirm", h.Confirm).Methods(http.MethodPost)
	r.HandleFunc("/internal/payments/{bookingId}/fail", h.Fail).Methods(http.MethodPost)
	return r
}

func TestConfirm_WithChargeID(t *testing.T) {
	stub := &paymentStub{}
	r := newRouter(stub)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/internal/payments/"+bookingID+"/confirm", strings.NewReader(`{"chargeId":"ch_1"}`))
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, stub.confirmed, 1)
	assert.Equal(t, bookingID, stub.confirmed[0].BookingID)
	assert.Equal(t, "ch_1", stub.confirmed[0].ChargeID)

	var resp PaymentWebhookResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Changed)
	assert.Equal(t, "completed", resp.Booking.PaymentStatus)
	assert.Equal(t, "confirmed", resp.Booking.Status)
}

func TestFail_WithoutBody(t *testing.T) {
	stub := &paymentStub{}
	r := newRouter(stub)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/internal/payments/"+bookingID+"/fail", nil))

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, stub.failed, 1)
	assert.Empty(t, stub.confirmed)
}

func TestConfirm_Errors(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		err        error
		wantStatus int
	}{
		{name: "invalid id", path: "/internal/payments/not-a-uuid/confirm", wantStatus: http.StatusBadRequest},
		{name: "not found", path: "/internal/payments/" + bookingID + "/confirm", err: confirmPayment.ErrBookingNotFound, wantStatus: http.StatusNotFound},
		{name: "invalid transition", path: "/internal/payments/" + bookingID + "/fail", err: confirmPayment.ErrInvalidTransition, wantStatus: http.StatusConflict},
		{name: "lock timeout", path: "/internal/payments/" + bookingID + "/confirm", err: confirmPayment.ErrLockContentionTimeout, wantStatus: http.StatusServiceUnavailable},
		{name: "internal", path: "/internal/payments/" + bookingID + "/confirm", err: confirmPayment.ErrInternal, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			newRouter(&paymentStub{err: tt.err}).ServeHTTP(w, httptest.NewRequest(http.MethodPost, tt.path, nil))
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
