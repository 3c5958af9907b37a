package consumer

import (
	"context"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	"github.com/m04kA/SMC-ConsultationService/internal/events"
	"github.com/m04kA/SMC-ConsultationService/internal/usecase/confirm_payment"
)

// PaymentKeys routing keys, на которые подписывается очередь потребителя
var PaymentKeys = []string{domain.RKPaymentPaid, domain.RKPaymentFailed}

// PaymentUseCase интерфейс переходов оплаты
type PaymentUseCase interface {
	Execute(ctx context.Context, req *confirm_payment.Request) (*confirm_payment.Response, error)
	MarkFailed(ctx context.Context, req *confirm_payment.Request) (*confirm_payment.Response, error)
}

// DeliverySource интерфейс источника сообщений (pkg/mq.Consumer)
type DeliverySource interface {
	Deliveries(ctx context.Context) (<-chan amqp.Delivery, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// errDrop сообщение не может быть обработано и не должно возвращаться в очередь
var errDrop = errors.New("consumer: drop message")

// PaymentConsumer применяет события платежного сервиса к бронированиям
type PaymentConsumer struct {
	usecase PaymentUseCase
	source  DeliverySource
	logger  Logger
}

// NewPaymentConsumer создает потребителя событий оплаты
func NewPaymentConsumer(usecase PaymentUseCase, source DeliverySource, logger Logger) *PaymentConsumer {
	return &PaymentConsumer{
		usecase: usecase,
		source:  source,
		logger:  logger,
	}
}

// Run читает сообщения до отмены ctx или закрытия канала
func (c *PaymentConsumer) Run(ctx context.Context) error {
	msgs, err := c.source.Deliveries(ctx)
	if err != nil {
		return fmt.Errorf("consume payments: %w", err)
	}

	c.logger.Info("PaymentConsumer: started, keys=%v", PaymentKeys)
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				c.logger.Warn("PaymentConsumer: delivery channel closed")
				return nil
			}
			c.dispatch(ctx, d)
		}
	}
}

// dispatch обрабатывает сообщение и подтверждает его
// Ошибки разбора и недопустимые переходы не повторяются, временные ошибки возвращаются в очередь
func (c *PaymentConsumer) dispatch(ctx context.Context, d amqp.Delivery) {
	err := c.handleDelivery(ctx, d)
	switch {
	case err == nil:
		_ = d.Ack(false)
	case errors.Is(err, errDrop):
		c.logger.Warn("PaymentConsumer: drop key=%s: %v", d.RoutingKey, err)
		_ = d.Nack(false, false)
	default:
		c.logger.Error("PaymentConsumer: handle error key=%s: %v, requeue", d.RoutingKey, err)
		_ = d.Nack(false, true)
	}
}

func (c *PaymentConsumer) handleDelivery(ctx context.Context, d amqp.Delivery) error {
	switch d.RoutingKey {
	case domain.RKPaymentPaid:
		ev, err := events.Decode[domain.PaymentPaidEvent](d.Body)
		if err != nil {
			return fmt.Errorf("%w: %v", errDrop, err)
		}
		if ev.BookingID == "" {
			return fmt.Errorf("%w: booking_id is empty", errDrop)
		}
		_, err = c.usecase.Execute(ctx, &confirm_payment.Request{BookingID: ev.BookingID, ChargeID: ev.ChargeID})
		return classify(err)

	case domain.RKPaymentFailed:
		ev, err := events.Decode[domain.PaymentFailedEvent](d.Body)
		if err != nil {
			return fmt.Errorf("%w: %v", errDrop, err)
		}
		if ev.BookingID == "" {
			return fmt.Errorf("%w: booking_id is empty", errDrop)
		}
		c.logger.Info("PaymentConsumer: payment failed for booking=%s: %s %s", ev.BookingID, ev.FailureCode, ev.FailureMessage)
		_, err = c.usecase.MarkFailed(ctx, &confirm_payment.Request{BookingID: ev.BookingID, ChargeID: ev.ChargeID})
		return classify(err)

	default:
		c.logger.Info("PaymentConsumer: skip unknown key=%s", d.RoutingKey)
		return nil
	}
}

// classify оставляет для повтора только временные ошибки
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, confirm_payment.ErrBookingNotFound),
		errors.Is(err, confirm_payment.ErrInvalidTransition),
		errors.Is(err, confirm_payment.ErrInvalidInput):
		return fmt.Errorf("%w: %v", errDrop, err)
	default:
		return err
	}
}
