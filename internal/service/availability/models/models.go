package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	"github.com/m04kA/SMC-ConsultationService/pkg/types"
)

// Request модели

// UpsertDayRequest запрос на изменение расписания на день недели
// IsActive опционален: по умолчанию день рабочий
type UpsertDayRequest struct {
	UserID     string `json:"userId"`
	ProviderID string `json:"providerId"`
	Weekday    string `json:"weekday"`   // "monday"
	StartTime  string `json:"startTime"` // "09:00"
	EndTime    string `json:"endTime"`   // "18:00"
	IsActive   *bool  `json:"isActive,omitempty"`
}

// ToDomainAvailability конвертирует запрос в domain модель с валидацией
func (r *UpsertDayRequest) ToDomainAvailability() (*domain.ProviderAvailability, error) {
	weekday, err := ParseWeekday(r.Weekday)
	if err != nil {
		return nil, err
	}

	start, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, fmt.Errorf("startTime: %w", err)
	}
	end, err := types.NewTimeStringFromString(r.EndTime)
	if err != nil {
		return nil, fmt.Errorf("endTime: %w", err)
	}
	if !start.IsBefore(end) {
		return nil, fmt.Errorf("startTime %s must be before endTime %s", start, end)
	}

	isActive := true
	if r.IsActive != nil {
		isActive = *r.IsActive
	}

	return &domain.ProviderAvailability{
		ProviderID: r.ProviderID,
		Weekday:    weekday,
		StartTime:  start,
		EndTime:    end,
		IsActive:   isActive,
	}, nil
}

// Response модели

// DayResponse расписание на день недели
type DayResponse struct {
	Weekday   string `json:"weekday"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	IsActive  bool   `json:"isActive"`
	IsDefault bool   `json:"isDefault"`
}

// ScheduleResponse недельное расписание провайдера
type ScheduleResponse struct {
	ProviderID string        `json:"providerId"`
	Days       []DayResponse `json:"days"`
}

// Методы конвертации

// FromDomainAvailability конвертирует domain модель в DTO
func FromDomainAvailability(a *domain.ProviderAvailability) DayResponse {
	return DayResponse{
		Weekday:   strings.ToLower(a.Weekday.String()),
		StartTime: a.StartTime.String(),
		EndTime:   a.EndTime.String(),
		IsActive:  a.IsActive,
		IsDefault: a.IsDefault(),
	}
}

// ParseWeekday разбирает название дня недели ("monday") без учета регистра
func ParseWeekday(s string) (time.Weekday, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.ToLower(d.String()) == name {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", s)
}
