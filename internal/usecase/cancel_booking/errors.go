package cancel_booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("cancel_booking: booking not found")

	// ErrAccessDenied возвращается, когда бронирование принадлежит другому клиенту
	ErrAccessDenied = errors.New("cancel_booking: access denied")

	// ErrInvalidTransition возвращается, когда бронирование уже отменено или завершено
	ErrInvalidTransition = errors.New("cancel_booking: booking cannot be cancelled")

	// ErrLockContentionTimeout возвращается, когда блокировку слота не удалось получить вовремя
	ErrLockContentionTimeout = errors.New("cancel_booking: lock contention timeout, retry later")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("cancel_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("cancel_booking: internal error")
)
