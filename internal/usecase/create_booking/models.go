package create_booking

import (
	"time"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	"github.com/m04kA/SMC-ConsultationService/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	ClientID      string           // ID клиента (держатель аренды)
	ProviderID    string           // ID провайдера
	ServiceID     string           // ID услуги из каталога
	Tier          string           // short или standard
	Date          string           // Дата консультации, YYYY-MM-DD
	StartTime     types.TimeString // Время начала слота (например, "10:00")
	Country       string           // Страна клиента для расчета цены
	PreviewAmount *int64           // Сумма, показанная клиенту (опционально, только для аудита)
}

// PricingMismatch расхождение предпросмотра цены с рассчитанной суммой
type PricingMismatch struct {
	PreviewAmount int64
	QuotedAmount  int64
}

// Response модель ответа с созданным бронированием
type Response struct {
	Booking         *domain.Booking
	PricingMismatch *PricingMismatch // nil, если предпросмотр не передан или совпал
	Now             time.Time        // момент, на который рассчитан эффективный статус
}
