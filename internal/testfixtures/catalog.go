package testfixtures

import (
	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	"github.com/m04kA/SMC-ConsultationService/internal/service/pricing"
)

// NewCalculator калькулятор с небольшим каталогом:
// "1" обычная услуга, "3" премиальная (x1.5), "9" только standard
func NewCalculator() *pricing.Calculator {
	both := []domain.DurationTier{domain.TierShort, domain.TierStandard}
	return pricing.NewCalculator(pricing.Config{
		Catalog: []domain.ServiceCatalogEntry{
			{ID: "1", Title: "Birth Chart (Kundli) Analysis", BasePrice: 4100, DiscountPercent: 25, Tiers: both},
			{ID: "3", Title: "Marriage & Relationship Compatibility", BasePrice: 5100, DiscountPercent: 25, Tiers: both},
			{ID: "9", Title: "Naming Ceremony", BasePrice: 1100, DiscountPercent: 25, Tiers: []domain.DurationTier{domain.TierStandard}},
		},
		Currency:        "INR",
		HomeCountry:     "India",
		PremiumServices: map[string]int{"3": 150},
	})
}
