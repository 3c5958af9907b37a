package get_quote

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуги нет в каталоге
	ErrServiceNotFound = errors.New("get_quote: service not found")

	// ErrTierNotOffered возвращается, когда услуга не предлагается с указанной длительностью
	ErrTierNotOffered = errors.New("get_quote: duration tier is not offered for this service")

	// ErrNotEligibleForFreeTier возвращается, когда клиент уже использовал бесплатную консультацию
	ErrNotEligibleForFreeTier = errors.New("get_quote: client is not eligible for the free tier")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_quote: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_quote: internal error")
)
