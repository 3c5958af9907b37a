package get_available_slots

import (
	getAvailableSlots "github.com/m04kA/SMC-ConsultationService/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	ProviderID      string          `json:"providerId"`
	Date            string          `json:"date"`
	Tier            string          `json:"tier"`
	DurationMinutes int             `json:"durationMinutes"`
	Slots           []AvailableSlot `json:"slots"`
}

// AvailableSlot модель свободного окна
type AvailableSlot struct {
	StartTime       string `json:"startTime"`
	EndTime         string `json:"endTime"`
	DurationMinutes int    `json:"durationMinutes"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]AvailableSlot, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = AvailableSlot{
			StartTime:       slot.Slot.StartTime.String(),
			EndTime:         slot.EndTime.String(),
			DurationMinutes: slot.DurationMinutes,
		}
	}

	return &AvailableSlotsResponse{
		ProviderID:      resp.ProviderID,
		Date:            resp.Date,
		Tier:            string(resp.Tier),
		DurationMinutes: resp.DurationMinutes,
		Slots:           slots,
	}
}

// ToUseCaseRequest создает запрос use case из URL и query параметров
func ToUseCaseRequest(providerID, date, tier string) *getAvailableSlots.Request {
	return &getAvailableSlots.Request{
		ProviderID: providerID,
		Date:       date,
		Tier:       tier,
	}
}
