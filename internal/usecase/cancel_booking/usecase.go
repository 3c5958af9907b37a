package cancel_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ConsultationService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-ConsultationService/internal/infra/storage/lease"
	"github.com/m04kA/SMC-ConsultationService/pkg/obs"
)

// UseCase use case для отмены бронирования клиентом
type UseCase struct {
	bookingRepo  BookingRepository
	locker       SlotLocker
	refunds      RefundPolicy
	txManager    TransactionManager
	publisher    EventPublisher
	metrics      Metrics
	location     *time.Location
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	locker SlotLocker,
	refunds RefundPolicy,
	txManager TransactionManager,
	publisher EventPublisher,
	metrics Metrics,
	location *time.Location,
	logger Logger,
) *UseCase {
	if location == nil {
		location = time.UTC
	}
	return &UseCase{
		bookingRepo:  bookingRepo,
		locker:       locker,
		refunds:      refunds,
		txManager:    txManager,
		publisher:    publisher,
		metrics:      metrics,
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

// Execute отменяет бронирование и фиксирует решение по возврату
// Запись идет под блокировкой окна слота, после отмены окно снова свободно
func (uc *UseCase) Execute(ctx context.Context, req *Request) (resp *Response, err error) {
	ctx, span := obs.StartSpan(ctx, "CancelBooking.Execute", attribute.String("booking.id", req.BookingID))
	defer func() { obs.EndSpan(span, err) }()

	uc.logger.Info("CancelBooking: booking=%s, client=%s", req.BookingID, req.ClientID)

	// 1. Валидация входных данных
	if strings.TrimSpace(req.BookingID) == "" {
		return nil, fmt.Errorf("%w: bookingId is required", ErrInvalidInput)
	}
	if strings.TrimSpace(req.ClientID) == "" {
		return nil, fmt.Errorf("%w: clientId is required", ErrInvalidInput)
	}

	// 2. Получаем бронирование, чтобы узнать окно слота
	booking, err := uc.load(ctx, req)
	if err != nil {
		return nil, err
	}

	// 3. Под блокировкой слота и в сериализуемой транзакции отменяем бронирование
	err = uc.locker.WithSlotLock(ctx, booking.Slot, booking.DurationMinutes, func(lockCtx context.Context) error {
		return uc.txManager.DoSerializable(lockCtx, func(txCtx context.Context) error {
			// 3.1. Перечитываем с блокировкой строки (FOR UPDATE)
			current, err := uc.load(txCtx, req)
			if err != nil {
				return err
			}

			// 3.2. Отменить можно только pending или confirmed до окончания консультации
			now := uc.timeProvider.Now()
			if !current.CanBeCancelled(now, uc.location) {
				uc.logger.Warn("CancelBooking: booking id=%s is %s", current.ID, current.EffectiveStatus(now, uc.location))
				return fmt.Errorf("%w: booking is %s", ErrInvalidTransition, current.EffectiveStatus(now, uc.location))
			}

			// 3.3. Решение по возврату
			appointmentAt, err := current.AppointmentAt(uc.location)
			if err != nil {
				return fmt.Errorf("%w: invalid appointment time: %v", ErrInternal, err)
			}
			decision := uc.refunds.Decide(current, appointmentAt, now)

			// 3.4. Сохраняем отмену
			if err := uc.bookingRepo.Cancel(txCtx, current.ID, decision, now); err != nil {
				if errors.Is(err, bookingRepo.ErrSerialization) {
					return ErrLockContentionTimeout
				}
				uc.logger.Error("CancelBooking: failed to cancel booking id=%s: %v", current.ID, err)
				return fmt.Errorf("%w: failed to cancel booking: %v", ErrInternal, err)
			}

			current.Status = domain.StatusCancelled
			current.Refund = &decision
			current.CancelledAt = &now
			resp = &Response{Booking: current, Refund: decision, Now: now}
			return nil
		})
	})
	if err != nil {
		return nil, uc.mapError(err)
	}

	uc.logger.Info("CancelBooking: booking id=%s cancelled, refund eligible=%t, %d%%, amount=%d (%s)",
		resp.Booking.ID, resp.Refund.Eligible, resp.Refund.Percentage, resp.Refund.Amount, resp.Refund.Reason)
	uc.metrics.IncBookingCancelled()
	uc.metrics.IncRefundComputed(resp.Refund.Percentage)

	// 4. Публикуем события: решение по возврату уходит при любой отмене, в том числе 0%
	occurredAt := resp.Booking.CancelledAt.Unix()
	uc.publish(ctx, domain.RKBookingCancelled, domain.NewBookingEvent(resp.Booking, occurredAt))
	uc.publish(ctx, domain.RKRefundComputed, domain.RefundComputedEvent{
		BookingID:  resp.Booking.ID,
		ClientID:   resp.Booking.ClientID,
		Eligible:   resp.Refund.Eligible,
		Percentage: resp.Refund.Percentage,
		Amount:     resp.Refund.Amount,
		Currency:   resp.Booking.Currency,
		Reason:     resp.Refund.Reason,
		OccurredAt: occurredAt,
	})

	return resp, nil
}

func (uc *UseCase) load(ctx context.Context, req *Request) (*domain.Booking, error) {
	booking, err := uc.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("CancelBooking: booking id=%s not found", req.BookingID)
			return nil, ErrBookingNotFound
		}
		uc.logger.Error("CancelBooking: failed to get booking id=%s: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}

	if booking.ClientID != req.ClientID {
		uc.logger.Warn("CancelBooking: client=%s is not the owner of booking id=%s", req.ClientID, req.BookingID)
		return nil, ErrAccessDenied
	}

	return booking, nil
}

func (uc *UseCase) publish(ctx context.Context, routingKey string, payload interface{}) {
	if err := uc.publisher.Publish(ctx, routingKey, payload); err != nil {
		uc.logger.Warn("CancelBooking: failed to publish %s: %v", routingKey, err)
	}
}

func (uc *UseCase) mapError(err error) error {
	switch {
	case errors.Is(err, lease.ErrLockContentionTimeout), errors.Is(err, bookingRepo.ErrSerialization):
		return ErrLockContentionTimeout
	case errors.Is(err, lease.ErrInvalidSlot):
		return fmt.Errorf("%w: %v", ErrInternal, err)
	default:
		return err
	}
}
