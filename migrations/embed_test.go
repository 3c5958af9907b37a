package migrations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNames_Ordered(t *testing.T) {
	names, err := Names()
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_init.sql", "0002_provider_availability.sql"}, names)
}

func TestInit_DeclaresConstraintsUsedByRepository(t *testing.T) {
	body, err := files.ReadFile("0001_init.sql")
	require.NoError(t, err)

	assert.Contains(t, string(body), "bookings_active_slot_uniq")
	assert.Contains(t, string(body), "bookings_client_free_tier_uniq")
}
