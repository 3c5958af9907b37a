package main

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/m04kA/SMC-ConsultationService/internal/config"
	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	"github.com/m04kA/SMC-ConsultationService/internal/service/availability"
	"github.com/m04kA/SMC-ConsultationService/internal/service/pricing"
	"github.com/m04kA/SMC-ConsultationService/pkg/types"
)

// newCalculator собирает калькулятор цен из секций pricing и catalog
func newCalculator(cfg *config.Config) (*pricing.Calculator, error) {
	catalog := make([]domain.ServiceCatalogEntry, 0, len(cfg.Catalog))
	for _, svc := range cfg.Catalog {
		tiers := make([]domain.DurationTier, 0, len(svc.Tiers))
		for _, t := range svc.Tiers {
			tier, err := domain.ParseDurationTier(t)
			if err != nil {
				return nil, fmt.Errorf("catalog %s: %w", svc.ID, err)
			}
			tiers = append(tiers, tier)
		}
		catalog = append(catalog, domain.ServiceCatalogEntry{
			ID:              svc.ID,
			Title:           svc.Title,
			BasePrice:       svc.BasePrice,
			DiscountPercent: svc.DiscountPercent,
			Tiers:           tiers,
		})
	}

	return pricing.NewCalculator(pricing.Config{
		Catalog:            catalog,
		Currency:           cfg.Pricing.Currency,
		HomeCountry:        cfg.Pricing.HomeCountry,
		DefaultMultiplier:  cfg.Pricing.DefaultMultiplier,
		CountryMultipliers: cfg.Pricing.Countries,
		PremiumServices:    cfg.Pricing.PremiumServices,
	}), nil
}

func bookingPolicy(cfg *config.Config) domain.BookingWindowPolicy {
	return domain.BookingWindowPolicy{
		MinNoticeMinutes:   cfg.Booking.MinBookingNoticeMinutes,
		AdvanceBookingDays: cfg.Booking.AdvanceBookingDays,
	}
}

func tierMinutes(cfg *config.Config) map[domain.DurationTier]int {
	return map[domain.DurationTier]int{
		domain.TierShort:    cfg.Booking.ShortSlotMinutes,
		domain.TierStandard: cfg.Booking.StandardSlotMinutes,
	}
}

func defaultHours(cfg *config.Config) (availability.DefaultHours, error) {
	start, err := types.NewTimeStringFromString(cfg.Schedule.DefaultStart)
	if err != nil {
		return availability.DefaultHours{}, fmt.Errorf("schedule.default_start: %w", err)
	}
	end, err := types.NewTimeStringFromString(cfg.Schedule.DefaultEnd)
	if err != nil {
		return availability.DefaultHours{}, fmt.Errorf("schedule.default_end: %w", err)
	}
	return availability.DefaultHours{Start: start, End: end}, nil
}

// openDB открывает пул соединений PostgreSQL и проверяет доступность базы
func openDB(cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}
