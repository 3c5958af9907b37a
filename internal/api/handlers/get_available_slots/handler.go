package get_available_slots

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ConsultationService/internal/api/handlers"
	getAvailableSlots "github.com/m04kA/SMC-ConsultationService/internal/usecase/get_available_slots"
)

const (
	msgMissingDate  = "дата обязательна"
	msgInvalidQuery = "некорректные параметры запроса, ожидается date=YYYY-MM-DD и tier=short|standard"
	msgDateTooFar   = "дата слишком далеко в будущем"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/providers/{providerId}/available-slots
// Query params: date (required, YYYY-MM-DD), tier (optional, standard по умолчанию)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	providerID := mux.Vars(r)["providerId"]

	// Извлекаем date из query параметров
	date := r.URL.Query().Get("date")
	if date == "" {
		h.logger.Warn("GET /providers/{id}/available-slots - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}
	tier := r.URL.Query().Get("tier")

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), ToUseCaseRequest(providerID, date, tier))
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /providers/{id}/available-slots - Invalid input: provider_id=%s, error=%v", providerID, err)
			handlers.RespondBadRequest(w, msgInvalidQuery)

		case errors.Is(err, getAvailableSlots.ErrDateTooFarInFuture):
			h.logger.Warn("GET /providers/{id}/available-slots - Date too far: provider_id=%s, date=%s", providerID, date)
			handlers.RespondBadRequest(w, msgDateTooFar)

		default:
			h.logger.Error("GET /providers/{id}/available-slots - Failed to get slots: provider_id=%s, date=%s, error=%v",
				providerID, date, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	// Формируем HTTP ответ
	response := FromUseCaseResponse(result)

	h.logger.Info("GET /providers/{id}/available-slots - Slots retrieved successfully: provider_id=%s, date=%s, tier=%s, slots_count=%d",
		providerID, date, result.Tier, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, response)
}
