package update_provider_availability

import (
	"github.com/m04kA/SMC-ConsultationService/internal/service/availability/models"
)

// UpdateAvailabilityRequest HTTP request model
type UpdateAvailabilityRequest struct {
	Weekday   string `json:"weekday"`   // "monday"
	StartTime string `json:"startTime"` // "09:00"
	EndTime   string `json:"endTime"`   // "18:00"
	IsActive  *bool  `json:"isActive,omitempty"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *UpdateAvailabilityRequest) ToServiceRequest(providerID, userID string) *models.UpsertDayRequest {
	return &models.UpsertDayRequest{
		UserID:     userID,
		ProviderID: providerID,
		Weekday:    r.Weekday,
		StartTime:  r.StartTime,
		EndTime:    r.EndTime,
		IsActive:   r.IsActive,
	}
}
