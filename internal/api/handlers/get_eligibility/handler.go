package get_eligibility

import (
	"net/http"

	"github.com/m04kA/SMC-ConsultationService/internal/api/handlers"
	"github.com/m04kA/SMC-ConsultationService/internal/api/middleware"
)

const msgMissingUserID = "отсутствует ID пользователя"

type Handler struct {
	service EligibilityService
	logger  Logger
}

func NewHandler(service EligibilityService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/clients/me/eligibility
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	clientID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /clients/me/eligibility - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.service.Eligibility(r.Context(), clientID)
	if err != nil {
		h.logger.Error("GET /clients/me/eligibility - Failed to check eligibility: client_id=%s, error=%v", clientID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /clients/me/eligibility - client_id=%s, free_tier_eligible=%t", clientID, result.FreeTierEligible)
	handlers.RespondJSON(w, http.StatusOK, result)
}
