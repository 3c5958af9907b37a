package get_provider_bookings

import (
	"fmt"
	"strconv"
	"time"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	"github.com/m04kA/SMC-ConsultationService/internal/service/bookings/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров.
// date задает один день; startDate/endDate задают период и не сочетаются с date.
func ToServiceRequest(
	providerID string,
	userID string,
	statusStr string,
	dateStr string,
	startDateStr string,
	endDateStr string,
	includeInactiveStr string,
) (*models.GetProviderBookingsRequest, error) {
	req := &models.GetProviderBookingsRequest{
		UserID:          userID,
		ProviderID:      providerID,
		IncludeInactive: false, // По умолчанию только активные
	}

	if statusStr != "" {
		req.Status = &statusStr
	}

	if dateStr != "" {
		if startDateStr != "" || endDateStr != "" {
			return nil, fmt.Errorf("date cannot be combined with startDate/endDate")
		}
		date, err := time.Parse(domain.DateFormat, dateStr)
		if err != nil {
			return nil, err
		}
		req.StartDate = &date
		req.EndDate = &date
	}

	if startDateStr != "" {
		start, err := time.Parse(domain.DateFormat, startDateStr)
		if err != nil {
			return nil, fmt.Errorf("invalid startDate: %w", err)
		}
		req.StartDate = &start
	}
	if endDateStr != "" {
		end, err := time.Parse(domain.DateFormat, endDateStr)
		if err != nil {
			return nil, fmt.Errorf("invalid endDate: %w", err)
		}
		req.EndDate = &end
	}

	if includeInactiveStr != "" {
		includeInactive, err := strconv.ParseBool(includeInactiveStr)
		if err != nil {
			return nil, fmt.Errorf("invalid includeInactive value: %w", err)
		}
		req.IncludeInactive = includeInactive
	}

	return req, nil
}
