package get_quote

import (
	"context"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	"github.com/m04kA/SMC-ConsultationService/internal/service/pricing"
)

// PriceCalculator интерфейс калькулятора цены
type PriceCalculator interface {
	Breakdown(serviceID string, tier domain.DurationTier, country string, isFirstTime bool) (*pricing.Breakdown, error)
}

// EligibilityChecker интерфейс проверки права на бесплатную консультацию
type EligibilityChecker interface {
	IsFirstTime(ctx context.Context, clientID string) (bool, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
