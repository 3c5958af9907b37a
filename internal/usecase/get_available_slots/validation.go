package get_available_slots

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request, loc *time.Location) (domain.DurationTier, time.Time, error) {
	if strings.TrimSpace(req.ProviderID) == "" {
		return "", time.Time{}, fmt.Errorf("%w: providerId is required", ErrInvalidInput)
	}
	if len(req.ProviderID) > domain.MaxIDLength {
		return "", time.Time{}, fmt.Errorf("%w: providerId is too long", ErrInvalidInput)
	}

	tier := domain.TierStandard
	if strings.TrimSpace(req.Tier) != "" {
		parsed, err := domain.ParseDurationTier(req.Tier)
		if err != nil {
			return "", time.Time{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		tier = parsed
	}

	date, err := time.ParseInLocation(domain.DateFormat, req.Date, loc)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
	}

	return tier, date, nil
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func isDateInPast(date, now time.Time) bool {
	// Обнуляем время, чтобы сравнивать только даты
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, now.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return dateOnly.Before(nowOnly)
}
