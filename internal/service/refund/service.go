package refund

import (
	"time"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
)

// Evaluator политика возврата средств при отмене
// Решение зависит только от аргументов, текущее время передается явно
type Evaluator struct{}

// NewEvaluator создает новый экземпляр политики возврата
func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// Evaluate определяет право на возврат
// Порядок правил:
// 1. short - бесплатная консультация, возвращать нечего
// 2. оплата не завершена - возвращать нечего
// 3. >= 24ч до начала - 100%, 12-24ч - 50%, < 12ч - 0% (нижние границы включительно)
func (e *Evaluator) Evaluate(appointmentAt, now time.Time, paymentStatus domain.PaymentStatus, tier domain.DurationTier) domain.RefundDecision {
	if tier == domain.TierShort {
		return domain.RefundDecision{Eligible: false, Percentage: 0, Reason: domain.RefundReasonFreeConsultation}
	}

	if paymentStatus != domain.PaymentCompleted {
		return domain.RefundDecision{Eligible: false, Percentage: 0, Reason: domain.RefundReasonNoPayment}
	}

	remaining := appointmentAt.Sub(now)

	switch {
	case remaining >= domain.FullRefundNotice:
		return domain.RefundDecision{Eligible: true, Percentage: domain.FullRefundPercent, Reason: domain.RefundReasonFull}
	case remaining >= domain.PartialRefundNotice:
		return domain.RefundDecision{Eligible: true, Percentage: domain.PartialRefundPercent, Reason: domain.RefundReasonPartial}
	default:
		return domain.RefundDecision{Eligible: false, Percentage: 0, Reason: domain.RefundReasonTooLate}
	}
}

// RefundAmount применяет процент к замороженной сумме бронирования (округление half-up)
func (e *Evaluator) RefundAmount(amount int64, decision domain.RefundDecision) int64 {
	if !decision.Eligible || decision.Percentage <= 0 || amount <= 0 {
		return 0
	}
	return (amount*int64(decision.Percentage) + 50) / 100
}

// Decide вычисляет решение вместе с суммой возврата
func (e *Evaluator) Decide(booking *domain.Booking, appointmentAt, now time.Time) domain.RefundDecision {
	decision := e.Evaluate(appointmentAt, now, booking.PaymentStatus, booking.DurationTier)
	decision.Amount = e.RefundAmount(booking.Amount, decision)
	return decision
}
