package models

import (
	"time"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
)

// Request модели

// AcquireRequest запрос на аренду слота
type AcquireRequest struct {
	HolderID   string `json:"-"`
	ProviderID string `json:"providerId"`
	Date       string `json:"date"`      // "2025-03-01"
	StartTime  string `json:"startTime"` // "10:00"
	Tier       string `json:"tier"`      // "short" | "standard"
}

// ReleaseRequest запрос на снятие аренды
type ReleaseRequest struct {
	HolderID   string `json:"-"`
	ProviderID string `json:"providerId"`
	Date       string `json:"date"`
	StartTime  string `json:"startTime"`
}

// Response модели

// LeaseResponse ответ с данными аренды
type LeaseResponse struct {
	ID              string    `json:"id"`
	ProviderID      string    `json:"providerId"`
	Date            string    `json:"date"`
	StartTime       string    `json:"startTime"`
	EndTime         string    `json:"endTime"`
	Tier            string    `json:"tier"`
	DurationMinutes int       `json:"durationMinutes"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
	ExpiresAt       time.Time `json:"expiresAt"`
}

// FromDomainLease конвертирует domain модель в DTO
func FromDomainLease(l *domain.Lease) *LeaseResponse {
	if l == nil {
		return nil
	}

	resp := &LeaseResponse{
		ID:              l.ID,
		ProviderID:      l.Slot.ProviderID,
		Date:            l.Slot.Date,
		StartTime:       l.Slot.StartTime.String(),
		Tier:            string(l.Tier),
		DurationMinutes: l.DurationMinutes,
		Status:          string(l.Status),
		CreatedAt:       l.CreatedAt,
		ExpiresAt:       l.ExpiresAt,
	}
	if end, err := l.Slot.StartTime.AddMinutes(l.DurationMinutes); err == nil {
		resp.EndTime = end.String()
	}

	return resp
}
