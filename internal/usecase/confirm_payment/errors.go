package confirm_payment

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("confirm_payment: booking not found")

	// ErrInvalidTransition возвращается, когда бронирование уже отменено или завершено
	ErrInvalidTransition = errors.New("confirm_payment: invalid status transition")

	// ErrLockContentionTimeout возвращается при конфликте сериализуемых транзакций
	ErrLockContentionTimeout = errors.New("confirm_payment: concurrent update, retry later")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("confirm_payment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("confirm_payment: internal error")
)
