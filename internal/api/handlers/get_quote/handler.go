package get_quote

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ConsultationService/internal/api/handlers"
	"github.com/m04kA/SMC-ConsultationService/internal/api/middleware"
	getQuote "github.com/m04kA/SMC-ConsultationService/internal/usecase/get_quote"
)

const (
	msgMissingUserID   = "отсутствует ID пользователя"
	msgInvalidParams   = "некорректные параметры запроса"
	msgServiceNotFound = "услуга не найдена"
	msgTierNotOffered  = "услуга не предоставляется в выбранной длительности"
	msgNotEligible     = "бесплатная консультация уже использована"
)

type Handler struct {
	useCase GetQuoteUseCase
	logger  Logger
}

func NewHandler(useCase GetQuoteUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/services/{serviceId}/quote
// Query params: tier (optional). Страна берется только из X-Geo-Country, как при создании бронирования
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	serviceID := mux.Vars(r)["serviceId"]

	clientID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /services/{id}/quote - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	country := middleware.GetCountry(r.Context())

	result, err := h.useCase.Execute(r.Context(), &getQuote.Request{
		ClientID:  clientID,
		ServiceID: serviceID,
		Tier:      r.URL.Query().Get("tier"),
		Country:   country,
	})
	if err != nil {
		switch {
		case errors.Is(err, getQuote.ErrServiceNotFound):
			h.logger.Warn("GET /services/{id}/quote - Service not found: service_id=%s", serviceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, getQuote.ErrTierNotOffered):
			h.logger.Warn("GET /services/{id}/quote - Tier not offered: service_id=%s", serviceID)
			handlers.RespondBadRequest(w, msgTierNotOffered)

		case errors.Is(err, getQuote.ErrNotEligibleForFreeTier):
			h.logger.Warn("GET /services/{id}/quote - Free tier already used: client_id=%s", clientID)
			handlers.RespondConflict(w, msgNotEligible)

		case errors.Is(err, getQuote.ErrInvalidInput):
			h.logger.Warn("GET /services/{id}/quote - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("GET /services/{id}/quote - Failed to quote: service_id=%s, error=%v", serviceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /services/{id}/quote - Quote computed: service_id=%s, tier=%s, country=%s, amount=%d",
		serviceID, result.Tier, result.Country, result.Amount)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
