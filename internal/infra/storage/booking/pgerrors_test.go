package booking

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestMapPQError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{
			name: "active slot index",
			err:  &pq.Error{Code: pgUniqueViolation, Constraint: constraintActiveSlot},
			want: ErrSlotTaken,
		},
		{
			name: "free tier index",
			err:  &pq.Error{Code: pgUniqueViolation, Constraint: constraintFreeTier},
			want: ErrFreeTierUsed,
		},
		{
			name: "other unique constraint",
			err:  &pq.Error{Code: pgUniqueViolation, Constraint: "bookings_pkey"},
			want: ErrDuplicate,
		},
		{
			name: "serialization failure",
			err:  &pq.Error{Code: pgSerializationFailure},
			want: ErrSerialization,
		},
		{
			name: "wrapped driver error",
			err:  fmt.Errorf("insert: %w", &pq.Error{Code: pgUniqueViolation, Constraint: constraintActiveSlot}),
			want: ErrSlotTaken,
		},
		{
			name: "other pq error",
			err:  &pq.Error{Code: "23503"},
			want: ErrExecQuery,
		},
		{
			name: "not a pq error",
			err:  errors.New("connection reset"),
			want: ErrExecQuery,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, mapPQError("Create", tt.err), tt.want)
		})
	}
}
