package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ConsultationService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-ConsultationService/internal/service/bookings/models"
)

// Service сервис чтения бронирований
type Service struct {
	bookingRepo  BookingRepository
	timeProvider TimeProvider
	location     *time.Location
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	timeProvider TimeProvider,
	location *time.Location,
	logger Logger,
) *Service {
	if location == nil {
		location = time.UTC
	}
	return &Service{
		bookingRepo:  bookingRepo,
		timeProvider: timeProvider,
		location:     location,
		logger:       logger,
	}
}

// GetByID получает бронирование по ID
// Бронирование видят только клиент-владелец и провайдер консультации
func (s *Service) GetByID(ctx context.Context, id string, userID string) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%s for user=%s", id, userID)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%s not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if booking.ClientID != userID && booking.ProviderID != userID {
		s.logger.Warn("GetByID: access denied for user=%s to booking id=%s", userID, id)
		return nil, ErrAccessDenied
	}

	return models.FromDomainBooking(booking, s.timeProvider.Now(), s.location), nil
}

// GetClientBookings получает историю бронирований клиента
// Опционально фильтрует по эффективному статусу
func (s *Service) GetClientBookings(ctx context.Context, req *models.GetClientBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetClientBookings: fetching bookings for client=%s, status=%v", req.ClientID, req.Status)

	if strings.TrimSpace(req.ClientID) == "" {
		return nil, fmt.Errorf("%w: clientId is required", ErrInvalidInput)
	}

	var status *domain.BookingStatus
	if req.Status != nil {
		st, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetClientBookings: invalid status=%s for client=%s", *req.Status, req.ClientID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		status = &st
	}

	bookings, err := s.bookingRepo.GetByClientID(ctx, req.ClientID)
	if err != nil {
		s.logger.Error("GetClientBookings: repository error for client=%s: %v", req.ClientID, err)
		return nil, fmt.Errorf("%w: GetClientBookings - repository error: %v", ErrInternal, err)
	}

	now := s.timeProvider.Now()
	bookings = s.filterByEffectiveStatus(bookings, status, now)

	s.logger.Info("GetClientBookings: successfully fetched %d bookings for client=%s", len(bookings), req.ClientID)
	return models.FromDomainBookingList(bookings, now, s.location), nil
}

// GetProviderBookings получает бронирования провайдера с фильтрацией по периоду и статусу
// Доступно только самому провайдеру
func (s *Service) GetProviderBookings(ctx context.Context, req *models.GetProviderBookingsRequest) (*models.BookingListResponse, error) {
	logMsg := fmt.Sprintf("GetProviderBookings: fetching bookings for provider=%s, user=%s", req.ProviderID, req.UserID)
	if req.StartDate != nil && req.EndDate != nil {
		logMsg += fmt.Sprintf(", period=%s to %s", req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat))
	}
	if req.Status != nil {
		logMsg += fmt.Sprintf(", status=%s", *req.Status)
	}
	s.logger.Info(logMsg)

	if req.UserID != req.ProviderID {
		s.logger.Warn("GetProviderBookings: user=%s is not provider=%s", req.UserID, req.ProviderID)
		return nil, ErrAccessDenied
	}

	filter, status, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetProviderBookings: invalid filter for provider=%s: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return nil, fmt.Errorf("%w: endDate is before startDate", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.GetByProviderWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetProviderBookings: repository error for provider=%s: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: GetProviderBookings - repository error: %v", ErrInternal, err)
	}

	now := s.timeProvider.Now()
	bookings = s.filterByEffectiveStatus(bookings, status, now)

	s.logger.Info("GetProviderBookings: successfully fetched %d bookings for provider=%s", len(bookings), req.ProviderID)
	return models.FromDomainBookingList(bookings, now, s.location), nil
}

// Eligibility проверяет право клиента на бесплатную консультацию
// Право есть, пока у клиента нет ни одной short-брони в любом статусе
func (s *Service) Eligibility(ctx context.Context, clientID string) (*models.EligibilityResponse, error) {
	if strings.TrimSpace(clientID) == "" {
		return nil, fmt.Errorf("%w: clientId is required", ErrInvalidInput)
	}

	used, err := s.bookingRepo.HasShortBooking(ctx, clientID)
	if err != nil {
		s.logger.Error("Eligibility: repository error for client=%s: %v", clientID, err)
		return nil, fmt.Errorf("%w: Eligibility - repository error: %v", ErrInternal, err)
	}

	return &models.EligibilityResponse{
		ClientID:         clientID,
		FreeTierEligible: !used,
	}, nil
}

// IsFirstTime возвращает true, если клиент еще не использовал бесплатную консультацию
func (s *Service) IsFirstTime(ctx context.Context, clientID string) (bool, error) {
	resp, err := s.Eligibility(ctx, clientID)
	if err != nil {
		return false, err
	}
	return resp.FreeTierEligible, nil
}

func (s *Service) filterByEffectiveStatus(bookings []*domain.Booking, status *domain.BookingStatus, now time.Time) []*domain.Booking {
	if status == nil {
		return bookings
	}

	result := make([]*domain.Booking, 0, len(bookings))
	for _, b := range bookings {
		if b.EffectiveStatus(now, s.location) == *status {
			result = append(result, b)
		}
	}
	return result
}
