package get_provider_availability

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ConsultationService/internal/api/handlers"
	"github.com/m04kA/SMC-ConsultationService/internal/service/availability"
)

const msgInvalidProviderID = "некорректный ID провайдера"

type Handler struct {
	service AvailabilityService
	logger  Logger
}

func NewHandler(service AvailabilityService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/providers/{providerId}/availability
// Публичный endpoint - без авторизации.
// Дни без сохраненного расписания возвращаются с часами по умолчанию (isDefault=true).
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	providerID := mux.Vars(r)["providerId"]

	result, err := h.service.GetSchedule(r.Context(), providerID)
	if err != nil {
		if errors.Is(err, availability.ErrInvalidInput) {
			h.logger.Warn("GET /providers/{id}/availability - Invalid provider ID: %v", err)
			handlers.RespondBadRequest(w, msgInvalidProviderID)
			return
		}
		h.logger.Error("GET /providers/{id}/availability - Failed to get schedule: provider_id=%s, error=%v",
			providerID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /providers/{id}/availability - Schedule retrieved successfully: provider_id=%s", providerID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
