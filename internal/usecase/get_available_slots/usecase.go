package get_available_slots

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	"github.com/m04kA/SMC-ConsultationService/pkg/obs"
)

// UseCase use case для получения свободных слотов провайдера
type UseCase struct {
	bookingRepo  BookingRepository
	schedule     ScheduleService
	leases       LeaseView
	policy       domain.BookingWindowPolicy
	location     *time.Location
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	schedule ScheduleService,
	leases LeaseView,
	policy domain.BookingWindowPolicy,
	location *time.Location,
	logger Logger,
) *UseCase {
	if location == nil {
		location = time.UTC
	}
	return &UseCase{
		bookingRepo:  bookingRepo,
		schedule:     schedule,
		leases:       leases,
		policy:       policy,
		location:     location,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case получения свободных слотов
// Читает только текущее состояние: окно свободно, если его не держит активная аренда
// и не занимает pending или confirmed бронирование
func (uc *UseCase) Execute(ctx context.Context, req *Request) (resp *Response, err error) {
	ctx, span := obs.StartSpan(ctx, "GetAvailableSlots.Execute",
		attribute.String("provider.id", req.ProviderID),
		attribute.String("slot.date", req.Date),
	)
	defer func() { obs.EndSpan(span, err) }()

	uc.logger.Info("GetAvailableSlots: provider=%s, date=%s, tier=%s", req.ProviderID, req.Date, req.Tier)

	// 1. Валидация входных данных
	tier, date, err := validateRequest(req, uc.location)
	if err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	minutes, ok := uc.leases.TierMinutes(tier)
	if !ok {
		return nil, fmt.Errorf("%w: tier %s is not configured", ErrInvalidInput, tier)
	}

	resp = &Response{
		ProviderID:      req.ProviderID,
		Date:            date.Format(domain.DateFormat),
		Tier:            tier,
		DurationMinutes: minutes,
		Slots:           []domain.AvailableSlot{},
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now().In(uc.location)

	// 3. Прошедшая дата - пустой список
	if isDateInPast(date, now) {
		uc.logger.Info("GetAvailableSlots: date %s is in the past", resp.Date)
		return resp, nil
	}

	// 4. Проверяем горизонт бронирования
	if uc.policy.IsDateBeyondHorizon(date, now) {
		uc.logger.Warn("GetAvailableSlots: date %s is beyond %d days", resp.Date, uc.policy.AdvanceBookingDays)
		return nil, fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, uc.policy.AdvanceBookingDays)
	}

	// 5. Окна расписания (закрытый день - пустой список)
	windows, err := uc.schedule.Windows(ctx, req.ProviderID, date, minutes)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get schedule for provider=%s: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: failed to get schedule: %v", ErrInternal, err)
	}
	if len(windows) == 0 {
		uc.logger.Info("GetAvailableSlots: provider=%s is closed on %s", req.ProviderID, resp.Date)
		return resp, nil
	}

	// 6. Активные бронирования и аренды на эту дату
	bookings, err := uc.bookingRepo.GetActiveByProviderAndDate(ctx, req.ProviderID, resp.Date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}
	leases := uc.leases.ActiveLeases(req.ProviderID, resp.Date, now)

	occupied, err := occupiedWindows(bookings, leases)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to compute occupied windows: %v", err)
		return nil, fmt.Errorf("%w: failed to compute occupied windows: %v", ErrInternal, err)
	}

	// 7. Отбрасываем занятые окна и окна раньше минимального уведомления
	slots, err := filterFreeWindows(req.ProviderID, date, tier, minutes, windows, occupied, uc.policy, now, uc.location)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to filter windows: %v", err)
		return nil, fmt.Errorf("%w: failed to filter windows: %v", ErrInternal, err)
	}
	resp.Slots = slots

	uc.logger.Info("GetAvailableSlots: %d of %d windows free for provider=%s, date=%s, tier=%s",
		len(slots), len(windows), req.ProviderID, resp.Date, tier)

	return resp, nil
}
