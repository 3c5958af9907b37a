package pricing

import (
	"fmt"
	"strings"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
)

// scale знаменатель для процентов и множителей в сотых долях
const scale = 100

// Config параметры калькулятора
type Config struct {
	Catalog            []domain.ServiceCatalogEntry
	Currency           string
	HomeCountry        string
	DefaultMultiplier  int            // 0 - DefaultMultiplier
	CountryMultipliers map[string]int // nil - DefaultCountryMultipliers()
	PremiumServices    map[string]int // serviceID -> множитель
}

// Breakdown расчет цены по шагам (для аудита и предпросмотра)
type Breakdown struct {
	ServiceID         string
	Tier              domain.DurationTier
	Country           string
	BasePrice         int64
	DiscountPercent   int
	CountryMultiplier int
	ServiceMultiplier int
	Amount            int64
	Currency          string
}

// Calculator чистый калькулятор цены консультации
// Состояние задается при создании и больше не меняется
type Calculator struct {
	catalog           map[string]domain.ServiceCatalogEntry
	order             []string
	currency          string
	countries         map[string]int
	defaultMultiplier int
	premium           map[string]int
}

// NewCalculator создает калькулятор, копируя переданные таблицы
func NewCalculator(cfg Config) *Calculator {
	c := &Calculator{
		catalog:           make(map[string]domain.ServiceCatalogEntry, len(cfg.Catalog)),
		order:             make([]string, 0, len(cfg.Catalog)),
		currency:          cfg.Currency,
		countries:         make(map[string]int),
		defaultMultiplier: cfg.DefaultMultiplier,
		premium:           make(map[string]int, len(cfg.PremiumServices)),
	}

	for _, entry := range cfg.Catalog {
		entry.Tiers = append([]domain.DurationTier(nil), entry.Tiers...)
		c.catalog[entry.ID] = entry
		c.order = append(c.order, entry.ID)
	}

	source := cfg.CountryMultipliers
	if source == nil {
		source = DefaultCountryMultipliers()
	}
	for country, m := range source {
		c.countries[normalizeCountry(country)] = m
	}
	if cfg.HomeCountry != "" {
		c.countries[normalizeCountry(cfg.HomeCountry)] = HomeMultiplier
	}

	if c.defaultMultiplier == 0 {
		c.defaultMultiplier = DefaultMultiplier
	}

	for id, m := range cfg.PremiumServices {
		c.premium[id] = m
	}

	return c
}

// Quote возвращает цену в минимальных единицах валюты
// short всегда стоит 0: право на бесплатную консультацию проверяет вызывающий код
func (c *Calculator) Quote(serviceID string, tier domain.DurationTier, country string, isFirstTime bool) (int64, error) {
	b, err := c.Breakdown(serviceID, tier, country, isFirstTime)
	if err != nil {
		return 0, err
	}
	return b.Amount, nil
}

// Breakdown возвращает цену вместе с примененными множителями
func (c *Calculator) Breakdown(serviceID string, tier domain.DurationTier, country string, isFirstTime bool) (*Breakdown, error) {
	if !tier.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTier, tier)
	}

	entry, ok := c.catalog[serviceID]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownService, serviceID)
	}
	if !entry.OffersTier(tier) {
		return nil, fmt.Errorf("%w: service %q, tier %q", ErrTierNotOffered, serviceID, tier)
	}

	b := &Breakdown{
		ServiceID:         serviceID,
		Tier:              tier,
		Country:           country,
		BasePrice:         entry.BasePrice,
		DiscountPercent:   entry.DiscountPercent,
		CountryMultiplier: c.CountryMultiplier(country),
		ServiceMultiplier: c.ServiceMultiplier(serviceID),
		Currency:          c.currency,
	}

	if tier == domain.TierShort {
		b.Amount = 0
		return b, nil
	}

	b.Amount = standardAmount(entry.BasePrice, entry.DiscountPercent, b.CountryMultiplier, b.ServiceMultiplier)
	return b, nil
}

// standardAmount base × (1 − discount/100) × ppp × svc с одним округлением half-up
func standardAmount(base int64, discountPercent, countryMultiplier, serviceMultiplier int) int64 {
	numerator := base * int64(scale-discountPercent) * int64(countryMultiplier) * int64(serviceMultiplier)
	denominator := int64(scale * scale * scale)

	amount := (numerator + denominator/2) / denominator

	// Платная консультация не может стоить 0
	if amount < 1 {
		amount = 1
	}
	return amount
}

// CountryMultiplier множитель страны в сотых долях
// Принимает код ISO-3166 alpha-2 или название; сравнение регистронезависимое, по точному совпадению
func (c *Calculator) CountryMultiplier(country string) int {
	if m, ok := c.countries[normalizeCountry(country)]; ok {
		return m
	}
	return c.defaultMultiplier
}

// ServiceMultiplier множитель услуги в сотых долях
func (c *Calculator) ServiceMultiplier(serviceID string) int {
	if m, ok := c.premium[serviceID]; ok {
		return m
	}
	return NeutralServiceMultiplier
}

// Service возвращает позицию каталога
func (c *Calculator) Service(serviceID string) (domain.ServiceCatalogEntry, error) {
	entry, ok := c.catalog[serviceID]
	if !ok {
		return domain.ServiceCatalogEntry{}, fmt.Errorf("%w: %q", ErrUnknownService, serviceID)
	}
	return entry, nil
}

// Catalog возвращает каталог в порядке конфигурации
func (c *Calculator) Catalog() []domain.ServiceCatalogEntry {
	result := make([]domain.ServiceCatalogEntry, 0, len(c.order))
	for _, id := range c.order {
		result = append(result, c.catalog[id])
	}
	return result
}

// Currency валюта цен
func (c *Calculator) Currency() string {
	return c.currency
}

// normalizeCountry приводит код alpha-2 или название страны к ключу таблицы
func normalizeCountry(country string) string {
	key := strings.ToLower(strings.TrimSpace(country))
	if name, ok := countryCodes[key]; ok {
		return name
	}
	return key
}
