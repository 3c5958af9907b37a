package create_booking

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/SMC-ConsultationService/internal/api/handlers"
	"github.com/m04kA/SMC-ConsultationService/internal/api/middleware"
	createBooking "github.com/m04kA/SMC-ConsultationService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidTime        = "некорректный формат времени начала, ожидается HH:MM"
	msgInvalidRequest     = "некорректные параметры бронирования"
	msgServiceNotFound    = "услуга не найдена"
	msgTierNotOffered     = "услуга не предоставляется в выбранной длительности"
	msgInvalidBookingDate = "некорректная дата бронирования"
	msgDateTooFar         = "дата бронирования слишком далеко в будущем"
	msgTooLateToBook      = "слишком поздно для бронирования этого слота"
	msgSlotUnavailable    = "выбранный слот недоступен, сначала займите его"
	msgNotEligible        = "бесплатная консультация уже использована"
	msgLockTimeout        = "слот занят другим запросом, повторите попытку"
)

type Handler struct {
	useCase  CreateBookingUseCase
	location *time.Location
	logger   Logger
}

func NewHandler(useCase CreateBookingUseCase, location *time.Location, logger Logger) *Handler {
	if location == nil {
		location = time.UTC
	}
	return &Handler{
		useCase:  useCase,
		location: location,
		logger:   logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Получаем userID из контекста (через middleware Auth)
	clientID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом времени)
	useCaseReq, err := req.ToUseCaseRequest(clientID, middleware.GetCountry(r.Context()))
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse start time: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrSlotUnavailable):
			h.logger.Warn("POST /bookings - Slot unavailable: client_id=%s, provider_id=%s, date=%s, start=%s",
				clientID, req.ProviderID, req.BookingDate, req.StartTime)
			handlers.RespondConflict(w, msgSlotUnavailable)

		case errors.Is(err, createBooking.ErrNotEligibleForFreeTier):
			h.logger.Warn("POST /bookings - Free tier already used: client_id=%s", clientID)
			handlers.RespondConflict(w, msgNotEligible)

		case errors.Is(err, createBooking.ErrServiceNotFound):
			h.logger.Warn("POST /bookings - Service not found: service_id=%s", req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createBooking.ErrTierNotOffered):
			h.logger.Warn("POST /bookings - Tier not offered: service_id=%s, tier=%s", req.ServiceID, req.Tier)
			handlers.RespondBadRequest(w, msgTierNotOffered)

		case errors.Is(err, createBooking.ErrInvalidDate):
			h.logger.Warn("POST /bookings - Invalid booking date: client_id=%s, date=%s", clientID, req.BookingDate)
			handlers.RespondBadRequest(w, msgInvalidBookingDate)

		case errors.Is(err, createBooking.ErrDateTooFarInFuture):
			h.logger.Warn("POST /bookings - Date too far in future: client_id=%s, date=%s", clientID, req.BookingDate)
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, createBooking.ErrTooLateToBook):
			h.logger.Warn("POST /bookings - Too late to book: client_id=%s, date=%s, start=%s",
				clientID, req.BookingDate, req.StartTime)
			handlers.RespondBadRequest(w, msgTooLateToBook)

		case errors.Is(err, createBooking.ErrLockContentionTimeout):
			h.logger.Warn("POST /bookings - Lock contention: provider_id=%s, date=%s, start=%s",
				req.ProviderID, req.BookingDate, req.StartTime)
			handlers.RespondServiceUnavailable(w, msgLockTimeout)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: client_id=%s, error=%v", clientID, err)
			handlers.RespondBadRequest(w, msgInvalidRequest)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: client_id=%s, provider_id=%s, error=%v",
				clientID, req.ProviderID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	// Формируем HTTP ответ
	response := FromUseCaseResponse(result, h.location)

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%s, client_id=%s, provider_id=%s, amount=%d",
		result.Booking.ID, clientID, req.ProviderID, result.Booking.Amount)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
