package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
)

func newTestCalculator() *Calculator {
	both := []domain.DurationTier{domain.TierShort, domain.TierStandard}
	return NewCalculator(Config{
		Catalog: []domain.ServiceCatalogEntry{
			{ID: "1", Title: "Birth Chart (Kundli) Analysis", BasePrice: 4100, DiscountPercent: 25, Tiers: both},
			{ID: "3", Title: "Marriage & Relationship Compatibility", BasePrice: 5100, DiscountPercent: 25, Tiers: both},
			{ID: "9", Title: "Naming Ceremony", BasePrice: 1100, DiscountPercent: 25, Tiers: []domain.DurationTier{domain.TierStandard}},
		},
		Currency:        "INR",
		HomeCountry:     "India",
		PremiumServices: map[string]int{"3": 150},
	})
}

func TestQuote_PremiumServiceHomeCountry(t *testing.T) {
	c := newTestCalculator()

	// 5100 × 0.75 × 1.0 × 1.5 = 5737.5 -> 5738
	amount, err := c.Quote("3", domain.TierStandard, "India", false)
	require.NoError(t, err)
	assert.Equal(t, int64(5738), amount)
}

func TestQuote_ShortTierIsFree(t *testing.T) {
	c := newTestCalculator()

	amount, err := c.Quote("1", domain.TierShort, "India", true)
	require.NoError(t, err)
	assert.Equal(t, int64(0), amount)
}

func TestQuote_CountryMultipliers(t *testing.T) {
	c := newTestCalculator()

	tests := []struct {
		name    string
		country string
		want    int64
	}{
		// 4100 × 0.75 = 3075
		{name: "home country", country: "India", want: 3075},
		{name: "case and spaces", country: "  iNDIA ", want: 3075},
		{name: "high income", country: "United States", want: 10763}, // 3075 × 3.5 = 10762.5
		{name: "upper middle", country: "Brazil", want: 4920},        // 3075 × 1.6
		{name: "lower middle", country: "Nepal", want: 3383},         // 3075 × 1.1 = 3382.5
		{name: "unlisted", country: "Atlantis", want: 6150},          // 3075 × 2.0
		{name: "no fuzzy match", country: "Indiana", want: 6150},
		{name: "empty", country: "", want: 6150},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount, err := c.Quote("1", domain.TierStandard, tt.country, false)
			require.NoError(t, err)
			assert.Equal(t, tt.want, amount)
		})
	}
}

func TestQuote_SingleRounding(t *testing.T) {
	// 1100 × 0.75 × 1.3 = 1072.5 -> 1073
	// 5100 × 0.75 × 1.25 × 1.5 = 7171.875 -> 7172
	c := NewCalculator(Config{
		Catalog: []domain.ServiceCatalogEntry{
			{ID: "3", BasePrice: 5100, DiscountPercent: 25, Tiers: []domain.DurationTier{domain.TierStandard}},
			{ID: "9", BasePrice: 1100, DiscountPercent: 25, Tiers: []domain.DurationTier{domain.TierStandard}},
		},
		HomeCountry:        "India",
		CountryMultipliers: map[string]int{"philippines": 125, "indonesia": 130},
		PremiumServices:    map[string]int{"3": 150},
	})

	amount, err := c.Quote("9", domain.TierStandard, "Indonesia", false)
	require.NoError(t, err)
	assert.Equal(t, int64(1073), amount)

	amount, err = c.Quote("3", domain.TierStandard, "Philippines", false)
	require.NoError(t, err)
	assert.Equal(t, int64(7172), amount)
}

func TestQuote_Deterministic(t *testing.T) {
	c := newTestCalculator()

	first, err := c.Quote("3", domain.TierStandard, "Germany", false)
	require.NoError(t, err)
	for i := 0; i < 100; i++ {
		again, err := c.Quote("3", domain.TierStandard, "Germany", false)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestQuote_Errors(t *testing.T) {
	c := newTestCalculator()

	_, err := c.Quote("42", domain.TierStandard, "India", false)
	assert.ErrorIs(t, err, ErrUnknownService)

	_, err = c.Quote("9", domain.TierShort, "India", true)
	assert.ErrorIs(t, err, ErrTierNotOffered)

	_, err = c.Quote("1", domain.DurationTier("long"), "India", false)
	assert.ErrorIs(t, err, ErrInvalidTier)
}

func TestBreakdown(t *testing.T) {
	c := newTestCalculator()

	b, err := c.Breakdown("3", domain.TierStandard, "japan", false)
	require.NoError(t, err)
	assert.Equal(t, int64(5100), b.BasePrice)
	assert.Equal(t, 25, b.DiscountPercent)
	assert.Equal(t, 250, b.CountryMultiplier)
	assert.Equal(t, 150, b.ServiceMultiplier)
	assert.Equal(t, int64(14344), b.Amount) // 3825 × 2.5 × 1.5 = 14343.75
	assert.Equal(t, "INR", b.Currency)
}

func TestCalculator_CopiesInput(t *testing.T) {
	table := map[string]int{"france": 280}
	c := NewCalculator(Config{HomeCountry: "India", CountryMultipliers: table})

	table["france"] = 999
	assert.Equal(t, 280, c.CountryMultiplier("France"))
}

func TestQuote_AcceptsGeoHeaderCodes(t *testing.T) {
	c := newTestCalculator()

	tests := []struct {
		name    string
		country string
		want    int64
	}{
		{name: "home country code", country: "IN", want: 5738},   // 3825 × 1.0 × 1.5 = 5737.5
		{name: "united states code", country: "US", want: 20081}, // 3825 × 3.5 × 1.5 = 20081.25
		{name: "lower case code", country: "in", want: 5738},
		{name: "unknown code", country: "ZZ", want: 11475}, // 3825 × 2.0 × 1.5
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount, err := c.Quote("3", domain.TierStandard, tt.country, false)
			require.NoError(t, err)
			assert.Equal(t, tt.want, amount)
		})
	}

	// код и название дают одну и ту же цену
	byCode, err := c.Quote("3", domain.TierStandard, "IN", false)
	require.NoError(t, err)
	byName, err := c.Quote("3", domain.TierStandard, "India", false)
	require.NoError(t, err)
	assert.Equal(t, byName, byCode)
}
