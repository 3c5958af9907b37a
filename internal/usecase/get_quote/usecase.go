package get_quote

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	"github.com/m04kA/SMC-ConsultationService/internal/service/pricing"
)

// UseCase use case для предварительного расчета цены
// Результат носит справочный характер: сумма бронирования пересчитывается при создании
type UseCase struct {
	pricing     PriceCalculator
	eligibility EligibilityChecker
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(pricing PriceCalculator, eligibility EligibilityChecker, logger Logger) *UseCase {
	return &UseCase{
		pricing:     pricing,
		eligibility: eligibility,
		logger:      logger,
	}
}

// Execute выполняет use case расчета цены
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetQuote: client=%s, service=%s, tier=%s, country=%q", req.ClientID, req.ServiceID, req.Tier, req.Country)

	// 1. Валидация входных данных
	if strings.TrimSpace(req.ClientID) == "" {
		return nil, fmt.Errorf("%w: clientId is required", ErrInvalidInput)
	}
	if strings.TrimSpace(req.ServiceID) == "" {
		return nil, fmt.Errorf("%w: serviceId is required", ErrInvalidInput)
	}
	if len(req.Country) > domain.MaxCountryLength {
		return nil, fmt.Errorf("%w: country is too long", ErrInvalidInput)
	}
	tier := domain.TierStandard
	if strings.TrimSpace(req.Tier) != "" {
		parsed, err := domain.ParseDurationTier(req.Tier)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		tier = parsed
	}

	// 2. Право на бесплатную консультацию
	isFirstTime, err := uc.eligibility.IsFirstTime(ctx, req.ClientID)
	if err != nil {
		uc.logger.Error("GetQuote: failed to check eligibility for client=%s: %v", req.ClientID, err)
		return nil, fmt.Errorf("%w: failed to check eligibility: %v", ErrInternal, err)
	}

	// 3. Расчет цены
	b, err := uc.pricing.Breakdown(req.ServiceID, tier, req.Country, isFirstTime)
	if err != nil {
		switch {
		case errors.Is(err, pricing.ErrUnknownService):
			uc.logger.Warn("GetQuote: service id=%s not found", req.ServiceID)
			return nil, ErrServiceNotFound
		case errors.Is(err, pricing.ErrTierNotOffered):
			uc.logger.Warn("GetQuote: service id=%s does not offer tier=%s", req.ServiceID, tier)
			return nil, ErrTierNotOffered
		case errors.Is(err, pricing.ErrInvalidTier):
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		default:
			uc.logger.Error("GetQuote: failed to quote service=%s: %v", req.ServiceID, err)
			return nil, fmt.Errorf("%w: failed to quote: %v", ErrInternal, err)
		}
	}

	if tier == domain.TierShort && !isFirstTime {
		uc.logger.Warn("GetQuote: client=%s already used the free consultation", req.ClientID)
		return nil, ErrNotEligibleForFreeTier
	}

	return &Response{
		ServiceID:         b.ServiceID,
		Tier:              b.Tier,
		Country:           b.Country,
		Amount:            b.Amount,
		Currency:          b.Currency,
		BasePrice:         b.BasePrice,
		DiscountPercent:   b.DiscountPercent,
		CountryMultiplier: b.CountryMultiplier,
		ServiceMultiplier: b.ServiceMultiplier,
		FreeTierEligible:  isFirstTime,
	}, nil
}
