package reservations

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	"github.com/m04kA/SMC-ConsultationService/internal/infra/storage/lease"
	"github.com/m04kA/SMC-ConsultationService/internal/service/reservations/models"
	"github.com/m04kA/SMC-ConsultationService/pkg/types"
)

// Service сервис аренды слотов на время оформления бронирования
type Service struct {
	leases       LeaseManager
	schedule     ScheduleService
	policy       domain.BookingWindowPolicy
	timeProvider TimeProvider
	location     *time.Location
	logger       Logger
}

// NewService создает новый экземпляр сервиса аренды
func NewService(
	leases LeaseManager,
	schedule ScheduleService,
	policy domain.BookingWindowPolicy,
	timeProvider TimeProvider,
	location *time.Location,
	logger Logger,
) *Service {
	if location == nil {
		location = time.UTC
	}
	return &Service{
		leases:       leases,
		schedule:     schedule,
		policy:       policy,
		timeProvider: timeProvider,
		location:     location,
		logger:       logger,
	}
}

// Acquire арендует слот для клиента
// Повторный запрос того же клиента продлевает аренду
func (s *Service) Acquire(ctx context.Context, req *models.AcquireRequest) (*models.LeaseResponse, error) {
	s.logger.Info("Acquire: client=%s provider=%s date=%s start=%s tier=%s",
		req.HolderID, req.ProviderID, req.Date, req.StartTime, req.Tier)

	// 1. Валидируем входные данные
	if strings.TrimSpace(req.HolderID) == "" {
		return nil, fmt.Errorf("%w: holder is required", ErrInvalidInput)
	}
	tier, err := domain.ParseDurationTier(req.Tier)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	minutes, ok := s.leases.TierMinutes(tier)
	if !ok {
		return nil, fmt.Errorf("%w: tier %s is not configured", ErrInvalidInput, tier)
	}
	slot := domain.SlotKey{
		ProviderID: req.ProviderID,
		Date:       req.Date,
		StartTime:  types.TimeString(req.StartTime),
	}
	if err := slot.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// 2. Проверяем правила уведомления и горизонта
	date, err := slot.ParseDate(s.location)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	startsAt, err := slot.StartsAt(s.location)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.policy.Check(startsAt, s.timeProvider.Now()); err != nil {
		s.logger.Warn("Acquire: slot %s rejected by booking policy: %v", slot, err)
		return nil, fmt.Errorf("%w: %v", ErrSlotNotBookable, err)
	}

	// 3. Слот должен совпадать с окном расписания
	onGrid, err := s.schedule.IsOnGrid(ctx, slot.ProviderID, date, slot.StartTime, minutes)
	if err != nil {
		s.logger.Error("Acquire: failed to check schedule for %s: %v", slot, err)
		return nil, fmt.Errorf("%w: failed to check schedule: %v", ErrInternal, err)
	}
	if !onGrid {
		s.logger.Warn("Acquire: slot %s is not on provider schedule", slot)
		return nil, ErrSlotNotOffered
	}

	// 4. Берем аренду
	l, err := s.leases.Acquire(ctx, slot, tier, req.HolderID)
	if err != nil {
		return nil, s.mapLeaseError("Acquire", slot, err)
	}

	s.logger.Info("Acquire: lease id=%s for slot %s held by client=%s until %s",
		l.ID, slot, l.HolderID, l.ExpiresAt.Format(time.RFC3339))
	return models.FromDomainLease(l), nil
}

// Release снимает аренду клиента; отсутствие аренды не является ошибкой
func (s *Service) Release(ctx context.Context, req *models.ReleaseRequest) error {
	slot := domain.SlotKey{
		ProviderID: req.ProviderID,
		Date:       req.Date,
		StartTime:  types.TimeString(req.StartTime),
	}
	if err := slot.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.leases.Release(ctx, slot, req.HolderID); err != nil {
		return s.mapLeaseError("Release", slot, err)
	}

	s.logger.Info("Release: slot %s released by client=%s", slot, req.HolderID)
	return nil
}

func (s *Service) mapLeaseError(op string, slot domain.SlotKey, err error) error {
	switch {
	case errors.Is(err, lease.ErrRejected):
		s.logger.Warn("%s: slot %s unavailable: %v", op, slot, err)
		return ErrSlotUnavailable
	case errors.Is(err, lease.ErrLockContentionTimeout):
		s.logger.Warn("%s: lock contention on slot %s", op, slot)
		return ErrLockContentionTimeout
	case errors.Is(err, lease.ErrInvalidSlot):
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	default:
		s.logger.Error("%s: lease manager error for slot %s: %v", op, slot, err)
		return fmt.Errorf("%w: %s - lease manager error: %v", ErrInternal, op, err)
	}
}
