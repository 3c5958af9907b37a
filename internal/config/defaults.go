package config

import (
	"fmt"
	"strings"
	"time"
)

// Значения по умолчанию
const (
	defaultHTTPPort        = 8080
	defaultReadTimeout     = 15
	defaultWriteTimeout    = 15
	defaultIdleTimeout     = 60
	defaultShutdownTimeout = 10

	defaultDBPort          = 5432
	defaultSSLMode         = "disable"
	defaultMaxOpenConns    = 25
	defaultMaxIdleConns    = 5
	defaultConnMaxLifetime = 300

	defaultLogLevel    = "info"
	defaultMetricsPath = "/metrics"
	defaultServiceName = "consultation-service"

	defaultTracingEndpoint    = "otel-collector:4317"
	defaultTracingEnvironment = "dev"
	defaultSampleRatio        = 1.0

	defaultExchange     = "consultations"
	defaultPaymentQueue = "consultation-service.payments"
	defaultPrefetch     = 8

	defaultTimeZone                = "Asia/Kolkata"
	defaultStandardSlotMinutes     = 30
	defaultShortSlotMinutes        = 15
	defaultLeaseTTLSeconds         = 300
	defaultLockWaitMillis          = 250
	defaultMinBookingNoticeMinutes = 60

	defaultScheduleStart = "09:00"
	defaultScheduleEnd   = "18:00"

	defaultCurrency          = "INR"
	defaultHomeCountry       = "India"
	defaultCountryMultiplier = 200
	defaultPremiumServiceID  = "3"
	defaultPremiumMultiplier = 150
	defaultDiscountPercent   = 25
)

// DefaultCatalog каталог услуг по умолчанию
func DefaultCatalog() []ServiceConfig {
	tiers := []string{"short", "standard"}
	return []ServiceConfig{
		{ID: "1", Title: "Birth Chart (Kundli) Analysis", BasePrice: 4100, DiscountPercent: defaultDiscountPercent, Tiers: tiers},
		{ID: "2", Title: "Career & Business Guidance", BasePrice: 3500, DiscountPercent: defaultDiscountPercent, Tiers: tiers},
		{ID: "3", Title: "Marriage & Relationship Compatibility", BasePrice: 5100, DiscountPercent: defaultDiscountPercent, Tiers: tiers},
		{ID: "4", Title: "Health & Life Path Insights", BasePrice: 3500, DiscountPercent: defaultDiscountPercent, Tiers: tiers},
		{ID: "5", Title: "Vastu Consultation", BasePrice: 3000, DiscountPercent: defaultDiscountPercent, Tiers: tiers},
		{ID: "6", Title: "Palmistry", BasePrice: 2000, DiscountPercent: defaultDiscountPercent, Tiers: tiers},
		{ID: "7", Title: "Gemstone Remedies & Sales", BasePrice: 3500, DiscountPercent: defaultDiscountPercent, Tiers: tiers},
		{ID: "8", Title: "Auspicious Childbirth Timing (Muhurat)", BasePrice: 3500, DiscountPercent: defaultDiscountPercent, Tiers: tiers},
		{ID: "9", Title: "Naming Ceremony", BasePrice: 1100, DiscountPercent: defaultDiscountPercent, Tiers: tiers},
	}
}

func (c *Config) setDefaults() {
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = defaultHTTPPort
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = defaultReadTimeout
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = defaultWriteTimeout
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = defaultIdleTimeout
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = defaultShutdownTimeout
	}

	if c.Database.Port == 0 {
		c.Database.Port = defaultDBPort
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = defaultSSLMode
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = defaultMaxOpenConns
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = defaultMaxIdleConns
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = defaultConnMaxLifetime
	}

	if c.Logs.Level == "" {
		c.Logs.Level = defaultLogLevel
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = defaultMetricsPath
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = defaultServiceName
	}

	if c.Tracing.Endpoint == "" {
		c.Tracing.Endpoint = defaultTracingEndpoint
	}
	if c.Tracing.Environment == "" {
		c.Tracing.Environment = defaultTracingEnvironment
	}
	if c.Tracing.SampleRatio == 0 {
		c.Tracing.SampleRatio = defaultSampleRatio
	}

	if c.RabbitMQ.Exchange == "" {
		c.RabbitMQ.Exchange = defaultExchange
	}
	if c.RabbitMQ.PaymentQueue == "" {
		c.RabbitMQ.PaymentQueue = defaultPaymentQueue
	}
	if c.RabbitMQ.Prefetch == 0 {
		c.RabbitMQ.Prefetch = defaultPrefetch
	}

	if c.Booking.TimeZone == "" {
		c.Booking.TimeZone = defaultTimeZone
	}
	if c.Booking.StandardSlotMinutes == 0 {
		c.Booking.StandardSlotMinutes = defaultStandardSlotMinutes
	}
	if c.Booking.ShortSlotMinutes == 0 {
		c.Booking.ShortSlotMinutes = defaultShortSlotMinutes
	}
	if c.Booking.LeaseTTLSeconds == 0 {
		c.Booking.LeaseTTLSeconds = defaultLeaseTTLSeconds
	}
	if c.Booking.LockWaitMillis == 0 {
		c.Booking.LockWaitMillis = defaultLockWaitMillis
	}
	if c.Booking.MinBookingNoticeMinutes == 0 {
		c.Booking.MinBookingNoticeMinutes = defaultMinBookingNoticeMinutes
	}

	if c.Schedule.DefaultStart == "" {
		c.Schedule.DefaultStart = defaultScheduleStart
	}
	if c.Schedule.DefaultEnd == "" {
		c.Schedule.DefaultEnd = defaultScheduleEnd
	}

	if c.Pricing.Currency == "" {
		c.Pricing.Currency = defaultCurrency
	}
	if c.Pricing.HomeCountry == "" {
		c.Pricing.HomeCountry = defaultHomeCountry
	}
	if c.Pricing.DefaultMultiplier == 0 {
		c.Pricing.DefaultMultiplier = defaultCountryMultiplier
	}
	if c.Pricing.PremiumServices == nil {
		c.Pricing.PremiumServices = map[string]int{defaultPremiumServiceID: defaultPremiumMultiplier}
	}

	if len(c.Catalog) == 0 {
		c.Catalog = DefaultCatalog()
	}
	for i := range c.Catalog {
		if len(c.Catalog[i].Tiers) == 0 {
			c.Catalog[i].Tiers = []string{"short", "standard"}
		}
	}
}

// Validate проверяет согласованность конфигурации
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port out of range: %d", ErrInvalidConfig, c.Server.HTTPPort)
	}

	if _, err := time.LoadLocation(c.Booking.TimeZone); err != nil {
		return fmt.Errorf("%w: booking.time_zone %q: %v", ErrInvalidConfig, c.Booking.TimeZone, err)
	}
	if c.Booking.StandardSlotMinutes <= 0 || c.Booking.ShortSlotMinutes <= 0 {
		return fmt.Errorf("%w: slot widths must be positive", ErrInvalidConfig)
	}
	if c.Booking.ShortSlotMinutes >= c.Booking.StandardSlotMinutes {
		return fmt.Errorf("%w: short slot (%d) must be shorter than standard slot (%d)",
			ErrInvalidConfig, c.Booking.ShortSlotMinutes, c.Booking.StandardSlotMinutes)
	}
	if c.Booking.LeaseTTLSeconds < 0 || c.Booking.LockWaitMillis < 0 || c.Booking.SweepIntervalSeconds < 0 {
		return fmt.Errorf("%w: booking durations must not be negative", ErrInvalidConfig)
	}
	if c.Booking.MinBookingNoticeMinutes < 0 || c.Booking.AdvanceBookingDays < 0 {
		return fmt.Errorf("%w: booking notice and horizon must not be negative", ErrInvalidConfig)
	}

	if !isClock(c.Schedule.DefaultStart) || !isClock(c.Schedule.DefaultEnd) {
		return fmt.Errorf("%w: schedule defaults must be HH:MM", ErrInvalidConfig)
	}
	if c.Schedule.DefaultStart >= c.Schedule.DefaultEnd {
		return fmt.Errorf("%w: schedule.default_start must be before default_end", ErrInvalidConfig)
	}

	if c.Pricing.DefaultMultiplier <= 0 {
		return fmt.Errorf("%w: pricing.default_multiplier must be positive", ErrInvalidConfig)
	}
	for country, m := range c.Pricing.Countries {
		if m <= 0 {
			return fmt.Errorf("%w: pricing multiplier for %q must be positive", ErrInvalidConfig, country)
		}
	}
	for id, m := range c.Pricing.PremiumServices {
		if m <= 0 {
			return fmt.Errorf("%w: premium multiplier for service %q must be positive", ErrInvalidConfig, id)
		}
	}

	seen := make(map[string]struct{}, len(c.Catalog))
	for _, svc := range c.Catalog {
		if strings.TrimSpace(svc.ID) == "" {
			return fmt.Errorf("%w: catalog entry without id", ErrInvalidConfig)
		}
		if _, dup := seen[svc.ID]; dup {
			return fmt.Errorf("%w: duplicate catalog id %q", ErrInvalidConfig, svc.ID)
		}
		seen[svc.ID] = struct{}{}
		if svc.BasePrice <= 0 {
			return fmt.Errorf("%w: catalog %q base_price must be positive", ErrInvalidConfig, svc.ID)
		}
		if svc.DiscountPercent < 0 || svc.DiscountPercent >= 100 {
			return fmt.Errorf("%w: catalog %q discount_percent must be in [0,100)", ErrInvalidConfig, svc.ID)
		}
		for _, tier := range svc.Tiers {
			if tier != "short" && tier != "standard" {
				return fmt.Errorf("%w: catalog %q has unknown tier %q", ErrInvalidConfig, svc.ID, tier)
			}
		}
	}

	if c.RabbitMQ.Enabled && c.RabbitMQ.URL == "" {
		return fmt.Errorf("%w: rabbitmq.url is required when rabbitmq is enabled", ErrInvalidConfig)
	}
	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		return fmt.Errorf("%w: tracing.sample_ratio must be in [0,1]", ErrInvalidConfig)
	}

	return nil
}

func isClock(s string) bool {
	_, err := time.Parse("15:04", s)
	return err == nil
}
