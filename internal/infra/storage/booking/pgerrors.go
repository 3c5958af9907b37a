package booking

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// Коды ошибок PostgreSQL
const (
	pgUniqueViolation      = pq.ErrorCode("23505")
	pgSerializationFailure = pq.ErrorCode("40001")
)

// Имена ограничений из migrations/0001_init.sql
const (
	constraintActiveSlot = "bookings_active_slot_uniq"
	constraintFreeTier   = "bookings_client_free_tier_uniq"
)

// mapPQError переводит ошибки драйвера в ошибки репозитория
func mapPQError(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pgUniqueViolation:
			switch pqErr.Constraint {
			case constraintActiveSlot:
				return ErrSlotTaken
			case constraintFreeTier:
				return ErrFreeTierUsed
			default:
				return fmt.Errorf("%w: %s - constraint %s", ErrDuplicate, op, pqErr.Constraint)
			}
		case pgSerializationFailure:
			return fmt.Errorf("%w: %s", ErrSerialization, op)
		}
	}
	return fmt.Errorf("%w: %s: %v", ErrExecQuery, op, err)
}
