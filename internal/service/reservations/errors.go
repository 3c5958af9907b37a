package reservations

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrSlotNotOffered возвращается, когда слот не входит в расписание провайдера
	ErrSlotNotOffered = errors.New("slot is not offered by provider schedule")

	// ErrSlotNotBookable возвращается, когда слот нарушает правила уведомления или горизонта
	ErrSlotNotBookable = errors.New("slot cannot be booked at this time")

	// ErrSlotUnavailable возвращается, когда слот удерживается другим клиентом или занят
	ErrSlotUnavailable = errors.New("slot unavailable")

	// ErrLockContentionTimeout возвращается, когда слот не удалось заблокировать вовремя
	ErrLockContentionTimeout = errors.New("slot is busy, try again")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
