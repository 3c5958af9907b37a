package availability

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	availabilityRepo "github.com/m04kA/SMC-ConsultationService/internal/infra/storage/availability"
	"github.com/m04kA/SMC-ConsultationService/internal/service/availability/models"
	"github.com/m04kA/SMC-ConsultationService/pkg/types"
)

// weekOrder порядок дней в ответе (с понедельника)
var weekOrder = []time.Weekday{
	time.Monday,
	time.Tuesday,
	time.Wednesday,
	time.Thursday,
	time.Friday,
	time.Saturday,
	time.Sunday,
}

// DefaultHours рабочие часы для дней без сохраненного расписания
type DefaultHours struct {
	Start types.TimeString
	End   types.TimeString
}

// Service сервис расписаний провайдеров
type Service struct {
	repo     AvailabilityRepository
	defaults DefaultHours
	logger   Logger
}

// NewService создает новый экземпляр сервиса расписаний
func NewService(repo AvailabilityRepository, defaults DefaultHours, logger Logger) *Service {
	if defaults.Start.IsZero() {
		defaults.Start = domain.DefaultWorkdayStart
	}
	if defaults.End.IsZero() {
		defaults.End = domain.DefaultWorkdayEnd
	}
	return &Service{
		repo:     repo,
		defaults: defaults,
		logger:   logger,
	}
}

// GetSchedule возвращает недельное расписание провайдера
// Дни без сохраненной записи заполняются часами по умолчанию
func (s *Service) GetSchedule(ctx context.Context, providerID string) (*models.ScheduleResponse, error) {
	if strings.TrimSpace(providerID) == "" {
		return nil, fmt.Errorf("%w: providerId is required", ErrInvalidInput)
	}

	stored, err := s.repo.GetByProvider(ctx, providerID)
	if err != nil {
		s.logger.Error("GetSchedule: repository error for provider=%s: %v", providerID, err)
		return nil, fmt.Errorf("%w: GetSchedule - repository error: %v", ErrInternal, err)
	}

	byDay := make(map[time.Weekday]*domain.ProviderAvailability, len(stored))
	for _, a := range stored {
		byDay[a.Weekday] = a
	}

	resp := &models.ScheduleResponse{
		ProviderID: providerID,
		Days:       make([]models.DayResponse, 0, len(weekOrder)),
	}
	for _, d := range weekOrder {
		a, ok := byDay[d]
		if !ok {
			a = s.defaultDay(providerID, d)
		}
		resp.Days = append(resp.Days, models.FromDomainAvailability(a))
	}

	return resp, nil
}

// UpsertDay сохраняет расписание на день недели
// Изменять расписание может только сам провайдер
func (s *Service) UpsertDay(ctx context.Context, req *models.UpsertDayRequest) (*models.DayResponse, error) {
	s.logger.Info("UpsertDay: provider=%s weekday=%s %s-%s by user=%s",
		req.ProviderID, req.Weekday, req.StartTime, req.EndTime, req.UserID)

	if req.UserID != req.ProviderID {
		s.logger.Warn("UpsertDay: user=%s is not provider=%s", req.UserID, req.ProviderID)
		return nil, ErrAccessDenied
	}

	availability, err := req.ToDomainAvailability()
	if err != nil {
		s.logger.Warn("UpsertDay: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	saved, err := s.repo.Upsert(ctx, availability)
	if err != nil {
		s.logger.Error("UpsertDay: repository error for provider=%s: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: UpsertDay - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpsertDay: saved schedule id=%d for provider=%s", saved.ID, saved.ProviderID)
	resp := models.FromDomainAvailability(saved)
	return &resp, nil
}

// DaySchedule возвращает расписание провайдера на конкретную дату
func (s *Service) DaySchedule(ctx context.Context, providerID string, date time.Time) (*domain.ProviderAvailability, error) {
	a, err := s.repo.GetByProviderAndWeekday(ctx, providerID, date.Weekday())
	if err == nil {
		return a, nil
	}
	if errors.Is(err, availabilityRepo.ErrAvailabilityNotFound) {
		return s.defaultDay(providerID, date.Weekday()), nil
	}

	s.logger.Error("DaySchedule: repository error for provider=%s: %v", providerID, err)
	return nil, fmt.Errorf("%w: DaySchedule - repository error: %v", ErrInternal, err)
}

// Windows нарезает рабочий день на окна заданной ширины от начала смены.
// Окно, не помещающееся целиком до конца смены, не выдается.
func (s *Service) Windows(ctx context.Context, providerID string, date time.Time, minutes int) ([]domain.TimeWindow, error) {
	if minutes <= 0 {
		return nil, fmt.Errorf("%w: slot width must be positive", ErrInvalidInput)
	}

	day, err := s.DaySchedule(ctx, providerID, date)
	if err != nil {
		return nil, err
	}
	if !day.IsOpen() {
		return []domain.TimeWindow{}, nil
	}

	start, err := day.StartTime.Minutes()
	if err != nil {
		return nil, fmt.Errorf("%w: invalid schedule start: %v", ErrInternal, err)
	}
	end, err := day.EndTime.Minutes()
	if err != nil {
		return nil, fmt.Errorf("%w: invalid schedule end: %v", ErrInternal, err)
	}

	windows := make([]domain.TimeWindow, 0, (end-start)/minutes)
	for m := start; m+minutes <= end; m += minutes {
		ws, err := types.NewTimeStringFromMinutes(m)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInternal, err)
		}
		we, err := types.NewTimeStringFromMinutes(m + minutes)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInternal, err)
		}
		windows = append(windows, domain.TimeWindow{Start: ws, End: we})
	}

	return windows, nil
}

// IsOnGrid проверяет, что слот совпадает с одним из окон расписания
func (s *Service) IsOnGrid(ctx context.Context, providerID string, date time.Time, start types.TimeString, minutes int) (bool, error) {
	windows, err := s.Windows(ctx, providerID, date, minutes)
	if err != nil {
		return false, err
	}
	for _, w := range windows {
		if w.Start == start {
			return true, nil
		}
	}
	return false, nil
}

func (s *Service) defaultDay(providerID string, weekday time.Weekday) *domain.ProviderAvailability {
	return &domain.ProviderAvailability{
		ProviderID: providerID,
		Weekday:    weekday,
		StartTime:  s.defaults.Start,
		EndTime:    s.defaults.End,
		IsActive:   true,
	}
}
