package confirm_payment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ConsultationService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-ConsultationService/pkg/obs"
)

// UseCase use case для переходов оплаты бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	txManager    TransactionManager
	publisher    EventPublisher
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	txManager TransactionManager,
	publisher EventPublisher,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		txManager:    txManager,
		publisher:    publisher,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute подтверждает оплату: pending -> confirmed, оплата completed
// Повторное подтверждение ничего не меняет
func (uc *UseCase) Execute(ctx context.Context, req *Request) (resp *Response, err error) {
	ctx, span := obs.StartSpan(ctx, "ConfirmPayment.Execute", attribute.String("booking.id", req.BookingID))
	defer func() { obs.EndSpan(span, err) }()

	uc.logger.Info("ConfirmPayment: booking=%s, charge=%s", req.BookingID, req.ChargeID)

	resp, err = uc.transition(ctx, "ConfirmPayment", req, func(b *domain.Booking) (bool, error) {
		switch b.Status {
		case domain.StatusConfirmed:
			return false, nil
		case domain.StatusPending:
			b.Status = domain.StatusConfirmed
			b.PaymentStatus = domain.PaymentCompleted
			return true, nil
		default:
			return false, fmt.Errorf("%w: booking is %s", ErrInvalidTransition, b.Status)
		}
	})
	if err != nil {
		return nil, err
	}

	if resp.Changed {
		uc.metrics.IncPaymentTransition(string(domain.PaymentCompleted))
		event := domain.NewBookingEvent(resp.Booking, uc.timeProvider.Now().Unix())
		if err := uc.publisher.Publish(ctx, domain.RKBookingConfirmed, event); err != nil {
			uc.logger.Warn("ConfirmPayment: failed to publish %s: %v", domain.RKBookingConfirmed, err)
		}
	}

	return resp, nil
}

// MarkFailed фиксирует неуспешную оплату; бронирование остается pending
// и может быть оплачено повторно
func (uc *UseCase) MarkFailed(ctx context.Context, req *Request) (resp *Response, err error) {
	ctx, span := obs.StartSpan(ctx, "ConfirmPayment.MarkFailed", attribute.String("booking.id", req.BookingID))
	defer func() { obs.EndSpan(span, err) }()

	uc.logger.Info("MarkPaymentFailed: booking=%s, charge=%s", req.BookingID, req.ChargeID)

	resp, err = uc.transition(ctx, "MarkPaymentFailed", req, func(b *domain.Booking) (bool, error) {
		if b.Status != domain.StatusPending {
			return false, fmt.Errorf("%w: booking is %s", ErrInvalidTransition, b.Status)
		}
		if b.PaymentStatus == domain.PaymentFailed {
			return false, nil
		}
		b.PaymentStatus = domain.PaymentFailed
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	if resp.Changed {
		uc.metrics.IncPaymentTransition(string(domain.PaymentFailed))
	}

	return resp, nil
}

// transition загружает бронирование с блокировкой, применяет apply и сохраняет результат
func (uc *UseCase) transition(ctx context.Context, op string, req *Request, apply func(b *domain.Booking) (bool, error)) (*Response, error) {
	// 1. Валидация входных данных
	if strings.TrimSpace(req.BookingID) == "" {
		return nil, fmt.Errorf("%w: bookingId is required", ErrInvalidInput)
	}

	var resp *Response

	// 2. Загружаем и меняем бронирование в сериализуемой транзакции (FOR UPDATE)
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		booking, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				uc.logger.Warn("%s: booking id=%s not found", op, req.BookingID)
				return ErrBookingNotFound
			}
			uc.logger.Error("%s: failed to get booking id=%s: %v", op, req.BookingID, err)
			return fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
		}

		changed, err := apply(booking)
		if err != nil {
			uc.logger.Warn("%s: booking id=%s: %v", op, req.BookingID, err)
			return err
		}

		if changed {
			if err := uc.bookingRepo.UpdatePayment(txCtx, booking.ID, booking.PaymentStatus, booking.Status); err != nil {
				if errors.Is(err, bookingRepo.ErrSerialization) {
					return ErrLockContentionTimeout
				}
				uc.logger.Error("%s: failed to update booking id=%s: %v", op, req.BookingID, err)
				return fmt.Errorf("%w: failed to update booking: %v", ErrInternal, err)
			}
		}

		resp = &Response{Booking: booking, Changed: changed, Now: uc.timeProvider.Now()}
		return nil
	})
	if err != nil {
		if errors.Is(err, bookingRepo.ErrSerialization) {
			return nil, ErrLockContentionTimeout
		}
		return nil, err
	}

	if resp.Changed {
		uc.logger.Info("%s: booking id=%s is now %s, payment %s", op, resp.Booking.ID, resp.Booking.Status, resp.Booking.PaymentStatus)
	} else {
		uc.logger.Info("%s: booking id=%s already %s, payment %s", op, resp.Booking.ID, resp.Booking.Status, resp.Booking.PaymentStatus)
	}
	return resp, nil
}
