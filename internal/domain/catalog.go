package domain

// ServiceCatalogEntry a consultation service offered to clients.
// Loaded once from configuration and never mutated.
type ServiceCatalogEntry struct {
	ID              string
	Title           string
	BasePrice       int64 // minor units
	DiscountPercent int
	Tiers           []DurationTier
}

// OffersTier reports whether the service can be booked with the tier
func (e ServiceCatalogEntry) OffersTier(tier DurationTier) bool {
	for _, t := range e.Tiers {
		if t == tier {
			return true
		}
	}
	return false
}
