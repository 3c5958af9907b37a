package lease

import "errors"

var (
	// ErrRejected возвращается, когда окно слота удерживает другой клиент
	ErrRejected = errors.New("lease.manager: slot is held by another client")

	// ErrSlotOccupied возвращается, когда окно слота занято бронированием
	ErrSlotOccupied = errors.New("lease.manager: slot is occupied by a booking")

	// ErrLeaseNotHeld возвращается, когда у клиента нет активной аренды слота
	ErrLeaseNotHeld = errors.New("lease.manager: lease is not held")

	// ErrLockContentionTimeout возвращается, когда блокировку слота не удалось получить за отведенное время
	ErrLockContentionTimeout = errors.New("lease.manager: lock contention timeout")

	// ErrInvalidSlot возвращается при некорректном слоте, тарифе или клиенте
	ErrInvalidSlot = errors.New("lease.manager: invalid slot")

	// ErrOccupancyCheck возвращается при ошибке проверки занятости слота
	ErrOccupancyCheck = errors.New("lease.manager: occupancy check failed")
)
