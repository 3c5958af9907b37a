package booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking.repository: booking not found")

	// ErrSlotTaken возвращается, когда на слот уже есть активное бронирование (unique violation)
	ErrSlotTaken = errors.New("booking.repository: slot already booked")

	// ErrFreeTierUsed возвращается, когда клиент уже использовал бесплатную консультацию (unique violation)
	ErrFreeTierUsed = errors.New("booking.repository: free tier already used by client")

	// ErrDuplicate возвращается при прочих нарушениях уникальности
	ErrDuplicate = errors.New("booking.repository: duplicate booking")

	// ErrSerialization возвращается при конфликте сериализуемых транзакций
	ErrSerialization = errors.New("booking.repository: serialization failure")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking.repository: failed to scan row")
)
