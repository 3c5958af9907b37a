package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix префикс переменных окружения для переопределения конфигурации
const EnvPrefix = "CONSULT"

var (
	// ErrReadConfig возвращается при ошибке чтения файла конфигурации
	ErrReadConfig = errors.New("config: failed to read config file")

	// ErrInvalidConfig возвращается при некорректных значениях конфигурации
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

// Config конфигурация сервиса
type Config struct {
	Server   ServerConfig    `toml:"server"`
	Database DatabaseConfig  `toml:"database"`
	Logs     LogsConfig      `toml:"logs"`
	Metrics  MetricsConfig   `toml:"metrics"`
	Tracing  TracingConfig   `toml:"tracing"`
	RabbitMQ RabbitMQConfig  `toml:"rabbitmq"`
	Booking  BookingConfig   `toml:"booking"`
	Schedule ScheduleConfig  `toml:"schedule"`
	Pricing  PricingConfig   `toml:"pricing"`
	Catalog  []ServiceConfig `toml:"catalog"`
}

// ServerConfig настройки HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int    `toml:"http_port"`
	ReadTimeout     int    `toml:"read_timeout"`
	WriteTimeout    int    `toml:"write_timeout"`
	IdleTimeout     int    `toml:"idle_timeout"`
	ShutdownTimeout int    `toml:"shutdown_timeout"`
	InternalToken   string `toml:"internal_token"` // токен для /internal/* (пусто - /internal/* закрыт)
}

// DatabaseConfig настройки PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN строка подключения для lib/pq
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// MetricsConfig настройки Prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// TracingConfig настройки OpenTelemetry
type TracingConfig struct {
	Enabled     bool    `toml:"enabled"`
	Endpoint    string  `toml:"endpoint"`
	Environment string  `toml:"environment"`
	SampleRatio float64 `toml:"sample_ratio"`
}

// RabbitMQConfig настройки шины событий
type RabbitMQConfig struct {
	Enabled      bool   `toml:"enabled"`
	URL          string `toml:"url"`
	Exchange     string `toml:"exchange"`
	PaymentQueue string `toml:"payment_queue"`
	Prefetch     int    `toml:"prefetch"`
}

// BookingConfig правила бронирования и удержания слотов
type BookingConfig struct {
	TimeZone                string `toml:"time_zone"`
	StandardSlotMinutes     int    `toml:"standard_slot_minutes"`
	ShortSlotMinutes        int    `toml:"short_slot_minutes"`
	LeaseTTLSeconds         int    `toml:"lease_ttl_seconds"`
	LockWaitMillis          int    `toml:"lock_wait_millis"`
	SweepIntervalSeconds    int    `toml:"sweep_interval_seconds"` // 0 - без фоновой очистки
	MinBookingNoticeMinutes int    `toml:"min_booking_notice_minutes"`
	AdvanceBookingDays      int    `toml:"advance_booking_days"` // 0 - без ограничений
}

// LeaseTTL время жизни удержания слота
func (c BookingConfig) LeaseTTL() time.Duration {
	return time.Duration(c.LeaseTTLSeconds) * time.Second
}

// LockWait максимальное ожидание блокировки слота
func (c BookingConfig) LockWait() time.Duration {
	return time.Duration(c.LockWaitMillis) * time.Millisecond
}

// SweepInterval период фоновой очистки просроченных удержаний
func (c BookingConfig) SweepInterval() time.Duration {
	return time.Duration(c.SweepIntervalSeconds) * time.Second
}

// Location часовой пояс, в котором заданы даты и время слотов
func (c BookingConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.TimeZone)
}

// ScheduleConfig расписание по умолчанию, если у провайдера нет записи на день недели
type ScheduleConfig struct {
	DefaultStart string `toml:"default_start"`
	DefaultEnd   string `toml:"default_end"`
}

// PricingConfig правила ценообразования
// Множители задаются в сотых долях: 150 = 1.5x
type PricingConfig struct {
	Currency          string         `toml:"currency"`
	HomeCountry       string         `toml:"home_country"`
	DefaultMultiplier int            `toml:"default_multiplier"`
	PremiumServices   map[string]int `toml:"premium_services"`
	Countries         map[string]int `toml:"countries"` // пусто - встроенная таблица
}

// ServiceConfig позиция каталога услуг (цены в минимальных единицах валюты)
type ServiceConfig struct {
	ID              string   `toml:"id"`
	Title           string   `toml:"title"`
	BasePrice       int64    `toml:"base_price"`
	DiscountPercent int      `toml:"discount_percent"`
	Tiers           []string `toml:"tiers"`
}

// envOverrides значения, которые можно переопределить через окружение
type envOverrides struct {
	HTTPPort      int    `envconfig:"HTTP_PORT"`
	DBHost        string `envconfig:"DB_HOST"`
	DBPort        int    `envconfig:"DB_PORT"`
	DBUser        string `envconfig:"DB_USER"`
	DBPassword    string `envconfig:"DB_PASSWORD"`
	DBName        string `envconfig:"DB_NAME"`
	LogLevel      string `envconfig:"LOG_LEVEL"`
	AMQPURL       string `envconfig:"AMQP_URL"`
	OTLPEndpoint  string `envconfig:"OTLP_ENDPOINT"`
	InternalToken string `envconfig:"INTERNAL_TOKEN"`
}

// Load читает конфигурацию из TOML файла, применяет переменные окружения,
// заполняет значения по умолчанию и валидирует результат
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadConfig, err)
	}
	return Parse(string(data))
}

// Parse разбирает конфигурацию из строки TOML
func Parse(data string) (*Config, error) {
	var cfg Config
	if _, err := toml.Decode(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: decode toml: %v", ErrReadConfig, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	cfg.setDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyEnv() error {
	var env envOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return fmt.Errorf("%w: environment: %v", ErrInvalidConfig, err)
	}

	if env.HTTPPort != 0 {
		c.Server.HTTPPort = env.HTTPPort
	}
	if env.DBHost != "" {
		c.Database.Host = env.DBHost
	}
	if env.DBPort != 0 {
		c.Database.Port = env.DBPort
	}
	if env.DBUser != "" {
		c.Database.User = env.DBUser
	}
	if env.DBPassword != "" {
		c.Database.Password = env.DBPassword
	}
	if env.DBName != "" {
		c.Database.DBName = env.DBName
	}
	if env.LogLevel != "" {
		c.Logs.Level = env.LogLevel
	}
	if env.AMQPURL != "" {
		c.RabbitMQ.URL = env.AMQPURL
	}
	if env.OTLPEndpoint != "" {
		c.Tracing.Endpoint = env.OTLPEndpoint
	}
	if env.InternalToken != "" {
		c.Server.InternalToken = env.InternalToken
	}

	return nil
}
