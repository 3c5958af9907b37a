package create_booking

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуги нет в каталоге
	ErrServiceNotFound = errors.New("create_booking: service not found")

	// ErrTierNotOffered возвращается, когда услуга не предлагается с указанной длительностью
	ErrTierNotOffered = errors.New("create_booking: duration tier is not offered for this service")

	// ErrInvalidDate возвращается, когда время слота уже прошло
	ErrInvalidDate = errors.New("create_booking: invalid booking date")

	// ErrTooLateToBook возвращается, когда попытка забронировать слот нарушает minBookingNoticeMinutes
	ErrTooLateToBook = errors.New("create_booking: too late to book this slot")

	// ErrDateTooFarInFuture возвращается, когда дата превышает ограничение advanceBookingDays
	ErrDateTooFarInFuture = errors.New("create_booking: date is too far in the future")

	// ErrSlotUnavailable возвращается, когда клиент не держит аренду слота или окно уже занято
	ErrSlotUnavailable = errors.New("create_booking: slot is unavailable")

	// ErrNotEligibleForFreeTier возвращается, когда клиент уже использовал бесплатную консультацию
	ErrNotEligibleForFreeTier = errors.New("create_booking: client is not eligible for the free tier")

	// ErrLockContentionTimeout возвращается, когда блокировку слота не удалось получить вовремя
	ErrLockContentionTimeout = errors.New("create_booking: lock contention timeout, retry later")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
