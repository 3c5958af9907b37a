package get_quote

import "github.com/m04kA/SMC-ConsultationService/internal/domain"

// Request модель запроса на предварительный расчет цены
type Request struct {
	ClientID  string // ID клиента для проверки права на бесплатную консультацию
	ServiceID string
	Tier      string // short или standard (пусто - standard)
	Country   string
}

// Response модель ответа с ценой и примененными множителями
type Response struct {
	ServiceID         string
	Tier              domain.DurationTier
	Country           string
	Amount            int64 // минимальные единицы валюты
	Currency          string
	BasePrice         int64
	DiscountPercent   int
	CountryMultiplier int // в сотых долях
	ServiceMultiplier int // в сотых долях
	FreeTierEligible  bool
}
