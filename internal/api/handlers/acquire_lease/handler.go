package acquire_lease

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ConsultationService/internal/api/handlers"
	"github.com/m04kA/SMC-ConsultationService/internal/api/middleware"
	"github.com/m04kA/SMC-ConsultationService/internal/service/reservations"
	"github.com/m04kA/SMC-ConsultationService/internal/service/reservations/models"
)

const (
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidSlot        = "некорректный слот"
	msgSlotNotOffered     = "слот не совпадает с расписанием провайдера"
	msgSlotNotBookable    = "слот нельзя забронировать: слишком рано или слишком далеко в будущем"
	msgSlotUnavailable    = "слот уже занят"
	msgLockTimeout        = "слот занят другим запросом, повторите попытку"
)

type Handler struct {
	service ReservationService
	logger  Logger
}

func NewHandler(service ReservationService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/leases
// Повторный запрос того же клиента на тот же слот продлевает аренду
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	clientID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /leases - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.AcquireRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /leases - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.HolderID = clientID

	lease, err := h.service.Acquire(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, reservations.ErrSlotUnavailable):
			handlers.RespondConflict(w, msgSlotUnavailable)

		case errors.Is(err, reservations.ErrSlotNotOffered):
			handlers.RespondBadRequest(w, msgSlotNotOffered)

		case errors.Is(err, reservations.ErrSlotNotBookable):
			handlers.RespondBadRequest(w, msgSlotNotBookable)

		case errors.Is(err, reservations.ErrLockContentionTimeout):
			handlers.RespondServiceUnavailable(w, msgLockTimeout)

		case errors.Is(err, reservations.ErrInvalidInput):
			h.logger.Warn("POST /leases - Invalid input: client_id=%s, error=%v", clientID, err)
			handlers.RespondBadRequest(w, msgInvalidSlot)

		default:
			h.logger.Error("POST /leases - Failed to acquire lease: client_id=%s, error=%v", clientID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /leases - Lease acquired: lease_id=%s, client_id=%s, provider_id=%s",
		lease.ID, clientID, lease.ProviderID)
	handlers.RespondJSON(w, http.StatusCreated, lease)
}
