package confirm_payment

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ConsultationService/internal/api/handlers"
	confirmPayment "github.com/m04kA/SMC-ConsultationService/internal/usecase/confirm_payment"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgNotFound           = "бронирование не найдено"
	msgInvalidTransition  = "недопустимый переход статуса оплаты"
	msgLockTimeout        = "бронирование изменяется другим запросом, повторите попытку"
)

type transitionFunc func(ctx context.Context, req *confirmPayment.Request) (*confirmPayment.Response, error)

// Handler служебные webhook-и платежного сервиса
type Handler struct {
	useCase  PaymentUseCase
	location *time.Location
	logger   Logger
}

func NewHandler(useCase PaymentUseCase, location *time.Location, logger Logger) *Handler {
	if location == nil {
		location = time.UTC
	}
	return &Handler{
		useCase:  useCase,
		location: location,
		logger:   logger,
	}
}

// Confirm POST /internal/payments/{bookingId}/confirm
func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "POST /internal/payments/{id}/confirm", h.useCase.Execute)
}

// Fail POST /internal/payments/{bookingId}/fail
func (h *Handler) Fail(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "POST /internal/payments/{id}/fail", h.useCase.MarkFailed)
}

func (h *Handler) handle(w http.ResponseWriter, r *http.Request, route string, apply transitionFunc) {
	bookingID := mux.Vars(r)["bookingId"]
	if _, err := uuid.Parse(bookingID); err != nil {
		h.logger.Warn("%s - Invalid booking ID: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var body PaymentWebhookRequest
	if r.ContentLength != 0 {
		if err := handlers.DecodeJSON(r, &body); err != nil {
			h.logger.Warn("%s - Invalid request body: %v", route, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)
			return
		}
	}

	result, err := apply(r.Context(), &confirmPayment.Request{
		BookingID: bookingID,
		ChargeID:  body.ChargeID,
	})
	if err != nil {
		switch {
		case errors.Is(err, confirmPayment.ErrBookingNotFound):
			h.logger.Warn("%s - Booking not found: booking_id=%s", route, bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, confirmPayment.ErrInvalidTransition):
			h.logger.Warn("%s - Invalid transition: booking_id=%s, error=%v", route, bookingID, err)
			handlers.RespondConflict(w, msgInvalidTransition)

		case errors.Is(err, confirmPayment.ErrLockContentionTimeout):
			handlers.RespondServiceUnavailable(w, msgLockTimeout)

		case errors.Is(err, confirmPayment.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidBookingID)

		default:
			h.logger.Error("%s - Failed to apply payment transition: booking_id=%s, error=%v", route, bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("%s - booking_id=%s, charge_id=%s, payment_status=%s, changed=%t",
		route, bookingID, body.ChargeID, result.Booking.PaymentStatus, result.Changed)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result, h.location))
}
