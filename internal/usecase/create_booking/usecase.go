package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ConsultationService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-ConsultationService/internal/infra/storage/lease"
	"github.com/m04kA/SMC-ConsultationService/internal/service/pricing"
	"github.com/m04kA/SMC-ConsultationService/pkg/obs"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	leases       LeaseManager
	pricing      PriceCalculator
	txManager    TransactionManager
	publisher    EventPublisher
	metrics      Metrics
	policy       domain.BookingWindowPolicy
	location     *time.Location
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	leases LeaseManager,
	pricing PriceCalculator,
	txManager TransactionManager,
	publisher EventPublisher,
	metrics Metrics,
	policy domain.BookingWindowPolicy,
	location *time.Location,
	logger Logger,
) *UseCase {
	if location == nil {
		location = time.UTC
	}
	return &UseCase{
		bookingRepo:  bookingRepo,
		leases:       leases,
		pricing:      pricing,
		txManager:    txManager,
		publisher:    publisher,
		metrics:      metrics,
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

// Execute выполняет use case создания бронирования
// Слот должен быть арендован клиентом; вставка идет под блокировкой слота
// и в сериализуемой транзакции
func (uc *UseCase) Execute(ctx context.Context, req *Request) (resp *Response, err error) {
	ctx, span := obs.StartSpan(ctx, "CreateBooking.Execute",
		attribute.String("provider.id", req.ProviderID),
		attribute.String("booking.tier", req.Tier),
	)
	defer func() { obs.EndSpan(span, err) }()

	uc.logger.Info("CreateBooking: client=%s, provider=%s, service=%s, tier=%s, date=%s, time=%s, country=%q",
		req.ClientID, req.ProviderID, req.ServiceID, req.Tier, req.Date, req.StartTime, req.Country)

	// 1. Валидация входных данных
	tier, slot, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверяем услугу в каталоге
	service, err := uc.pricing.Service(req.ServiceID)
	if err != nil {
		uc.logger.Warn("CreateBooking: service id=%s not found", req.ServiceID)
		return nil, ErrServiceNotFound
	}
	if !service.OffersTier(tier) {
		uc.logger.Warn("CreateBooking: service id=%s does not offer tier=%s", req.ServiceID, tier)
		return nil, ErrTierNotOffered
	}

	// 3. Проверяем правила уведомления и горизонта
	now := uc.timeProvider.Now()
	startsAt, err := slot.StartsAt(uc.location)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := uc.policy.Check(startsAt, now); err != nil {
		uc.logger.Warn("CreateBooking: slot %s rejected by booking policy: %v", slot, err)
		return nil, mapPolicyError(err)
	}

	var created *domain.Booking

	// 4. Под блокировкой слота проверяем аренду клиента и создаем бронирование
	err = uc.leases.Consume(ctx, slot, req.ClientID, func(lockCtx context.Context, l domain.Lease) error {
		if l.Tier != tier {
			uc.logger.Warn("CreateBooking: lease id=%s is for tier=%s, requested tier=%s", l.ID, l.Tier, tier)
			return ErrSlotUnavailable
		}

		return uc.txManager.DoSerializable(lockCtx, func(txCtx context.Context) error {
			// 4.1. Право на бесплатную консультацию определяется по истории клиента
			usedShort, err := uc.bookingRepo.HasShortBooking(txCtx, req.ClientID)
			if err != nil {
				uc.logger.Error("CreateBooking: failed to check booking history for client=%s: %v", req.ClientID, err)
				return fmt.Errorf("%w: failed to check booking history: %v", ErrInternal, err)
			}
			isFirstTime := !usedShort
			if tier == domain.TierShort && !isFirstTime {
				uc.logger.Warn("CreateBooking: client=%s already used the free consultation", req.ClientID)
				return ErrNotEligibleForFreeTier
			}

			// 4.2. Повторно проверяем занятость окна с блокировкой строк (FOR UPDATE)
			window, err := slot.Window(l.DurationMinutes)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrInvalidInput, err)
			}
			active, err := uc.bookingRepo.GetActiveByProviderAndDate(txCtx, slot.ProviderID, slot.Date)
			if err != nil {
				uc.logger.Error("CreateBooking: failed to get bookings: %v", err)
				return fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
			}
			overlap, err := hasOverlap(window, active)
			if err != nil {
				return fmt.Errorf("%w: failed to check overlap: %v", ErrInternal, err)
			}
			if overlap {
				uc.logger.Warn("CreateBooking: window %s-%s on %s is already booked", window.Start, window.End, slot.Date)
				return ErrSlotUnavailable
			}

			// 4.3. Считаем и замораживаем цену
			amount, err := uc.pricing.Quote(req.ServiceID, tier, req.Country, isFirstTime)
			if err != nil {
				if errors.Is(err, pricing.ErrTierNotOffered) {
					return ErrTierNotOffered
				}
				uc.logger.Error("CreateBooking: failed to quote service=%s: %v", req.ServiceID, err)
				return fmt.Errorf("%w: failed to quote: %v", ErrInternal, err)
			}

			booking := &domain.Booking{
				ClientID:        req.ClientID,
				ProviderID:      slot.ProviderID,
				ServiceID:       req.ServiceID,
				DurationTier:    tier,
				Slot:            slot,
				DurationMinutes: l.DurationMinutes,
				Country:         req.Country,
				Currency:        uc.pricing.Currency(),
				Amount:          amount,
				PreviewAmount:   req.PreviewAmount,
				PaymentStatus:   domain.PaymentPending,
				Status:          domain.StatusPending,
			}
			// Бесплатная консультация подтверждается сразу
			if tier == domain.TierShort {
				booking.PaymentStatus = domain.PaymentCompleted
				booking.Status = domain.StatusConfirmed
			}

			// 4.4. Сохраняем бронирование
			saved, err := uc.bookingRepo.Create(txCtx, booking)
			if err != nil {
				return uc.mapCreateError(err)
			}

			created = saved
			return nil
		})
	})
	if err != nil {
		return nil, uc.mapConsumeError(slot, err)
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%s, amount=%d %s, status=%s",
		created.ID, created.Amount, created.Currency, created.Status)
	uc.metrics.IncBookingCreated(string(created.DurationTier))

	resp = &Response{Booking: created, Now: now}

	// 5. Сверяем предпросмотр цены (только аудит, запрос не отклоняется)
	if req.PreviewAmount != nil && *req.PreviewAmount != created.Amount {
		uc.logger.Warn("CreateBooking: pricing mismatch for booking id=%s: preview=%d, quoted=%d, service=%s, country=%q",
			created.ID, *req.PreviewAmount, created.Amount, created.ServiceID, created.Country)
		uc.metrics.IncPricingMismatch()
		resp.PricingMismatch = &PricingMismatch{
			PreviewAmount: *req.PreviewAmount,
			QuotedAmount:  created.Amount,
		}
	}

	// 6. Публикуем события; ошибка публикации не отменяет бронирование
	event := domain.NewBookingEvent(created, uc.timeProvider.Now().Unix())
	uc.publish(ctx, domain.RKBookingCreated, event)
	if created.Status == domain.StatusConfirmed {
		uc.publish(ctx, domain.RKBookingConfirmed, event)
	}

	return resp, nil
}

func (uc *UseCase) publish(ctx context.Context, routingKey string, payload interface{}) {
	if err := uc.publisher.Publish(ctx, routingKey, payload); err != nil {
		uc.logger.Warn("CreateBooking: failed to publish %s: %v", routingKey, err)
	}
}

func (uc *UseCase) mapCreateError(err error) error {
	switch {
	case errors.Is(err, bookingRepo.ErrSlotTaken):
		uc.logger.Warn("CreateBooking: slot taken by a concurrent booking")
		return ErrSlotUnavailable
	case errors.Is(err, bookingRepo.ErrFreeTierUsed):
		uc.logger.Warn("CreateBooking: free tier used by a concurrent booking")
		return ErrNotEligibleForFreeTier
	case errors.Is(err, bookingRepo.ErrSerialization):
		uc.logger.Warn("CreateBooking: serialization conflict: %v", err)
		return ErrLockContentionTimeout
	default:
		uc.logger.Error("CreateBooking: failed to create booking: %v", err)
		return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
	}
}

func (uc *UseCase) mapConsumeError(slot domain.SlotKey, err error) error {
	switch {
	case errors.Is(err, lease.ErrLeaseNotHeld):
		uc.logger.Warn("CreateBooking: client does not hold slot %s", slot)
		return ErrSlotUnavailable
	case errors.Is(err, lease.ErrLockContentionTimeout):
		return ErrLockContentionTimeout
	case errors.Is(err, lease.ErrInvalidSlot):
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	case errors.Is(err, bookingRepo.ErrSerialization):
		return ErrLockContentionTimeout
	case errors.Is(err, ErrSlotUnavailable),
		errors.Is(err, ErrNotEligibleForFreeTier),
		errors.Is(err, ErrTierNotOffered),
		errors.Is(err, ErrLockContentionTimeout),
		errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrInternal):
		return err
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		uc.logger.Error("CreateBooking: unexpected error for slot %s: %v", slot, err)
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
}
