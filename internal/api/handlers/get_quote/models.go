package get_quote

import (
	getQuote "github.com/m04kA/SMC-ConsultationService/internal/usecase/get_quote"
)

// QuoteResponse HTTP response model
// Множители передаются в сотых долях (125 = x1.25)
type QuoteResponse struct {
	ServiceID         string `json:"serviceId"`
	Tier              string `json:"tier"`
	Country           string `json:"country"`
	Amount            int64  `json:"amount"`
	Currency          string `json:"currency"`
	BasePrice         int64  `json:"basePrice"`
	DiscountPercent   int    `json:"discountPercent"`
	CountryMultiplier int    `json:"countryMultiplier"`
	ServiceMultiplier int    `json:"serviceMultiplier"`
	FreeTierEligible  bool   `json:"freeTierEligible"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getQuote.Response) *QuoteResponse {
	return &QuoteResponse{
		ServiceID:         resp.ServiceID,
		Tier:              string(resp.Tier),
		Country:           resp.Country,
		Amount:            resp.Amount,
		Currency:          resp.Currency,
		BasePrice:         resp.BasePrice,
		DiscountPercent:   resp.DiscountPercent,
		CountryMultiplier: resp.CountryMultiplier,
		ServiceMultiplier: resp.ServiceMultiplier,
		FreeTierEligible:  resp.FreeTierEligible,
	}
}
