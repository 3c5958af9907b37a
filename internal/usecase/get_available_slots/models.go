package get_available_slots

import (
	"github.com/m04kA/SMC-ConsultationService/internal/domain"
)

// Request модель запроса на получение свободных слотов
type Request struct {
	ProviderID string // ID провайдера
	Date       string // Дата, YYYY-MM-DD
	Tier       string // short или standard (пусто - standard)
}

// Response модель ответа со списком свободных слотов
type Response struct {
	ProviderID      string
	Date            string
	Tier            domain.DurationTier
	DurationMinutes int
	Slots           []domain.AvailableSlot // По возрастанию времени начала
}
