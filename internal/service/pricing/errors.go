package pricing

import "errors"

var (
	// ErrUnknownService возвращается, когда услуги нет в каталоге
	ErrUnknownService = errors.New("pricing: unknown service")

	// ErrTierNotOffered возвращается, когда услуга не предлагается с указанной длительностью
	ErrTierNotOffered = errors.New("pricing: duration tier is not offered for this service")

	// ErrInvalidTier возвращается при неизвестной длительности
	ErrInvalidTier = errors.New("pricing: invalid duration tier")
)
