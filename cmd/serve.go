package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	acquireLeaseHandler "github.com/m04kA/SMC-ConsultationService/internal/api/handlers/acquire_lease"
	cancelBookingHandler "github.com/m04kA/SMC-ConsultationService/internal/api/handlers/cancel_booking"
	confirmPaymentHandler "github.com/m04kA/SMC-ConsultationService/internal/api/handlers/confirm_payment"
	createBookingHandler "github.com/m04kA/SMC-ConsultationService/internal/api/handlers/create_booking"
	getAvailableSlotsHandler "github.com/m04kA/SMC-ConsultationService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SMC-ConsultationService/internal/api/handlers/get_booking"
	getClientBookingsHandler "github.com/m04kA/SMC-ConsultationService/internal/api/handlers/get_client_bookings"
	getEligibilityHandler "github.com/m04kA/SMC-ConsultationService/internal/api/handlers/get_eligibility"
	getProviderAvailabilityHandler "github.com/m04kA/SMC-ConsultationService/internal/api/handlers/get_provider_availability"
	getProviderBookingsHandler "github.com/m04kA/SMC-ConsultationService/internal/api/handlers/get_provider_bookings"
	getQuoteHandler "github.com/m04kA/SMC-ConsultationService/internal/api/handlers/get_quote"
	releaseLeaseHandler "github.com/m04kA/SMC-ConsultationService/internal/api/handlers/release_lease"
	updateProviderAvailabilityHandler "github.com/m04kA/SMC-ConsultationService/internal/api/handlers/update_provider_availability"
	"github.com/m04kA/SMC-ConsultationService/internal/api/middleware"
	"github.com/m04kA/SMC-ConsultationService/internal/config"
	"github.com/m04kA/SMC-ConsultationService/internal/consumer"
	"github.com/m04kA/SMC-ConsultationService/internal/events"
	availabilityRepo "github.com/m04kA/SMC-ConsultationService/internal/infra/storage/availability"
	bookingRepo "github.com/m04kA/SMC-ConsultationService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-ConsultationService/internal/infra/storage/lease"
	availabilityService "github.com/m04kA/SMC-ConsultationService/internal/service/availability"
	bookingsService "github.com/m04kA/SMC-ConsultationService/internal/service/bookings"
	"github.com/m04kA/SMC-ConsultationService/internal/service/refund"
	reservationsService "github.com/m04kA/SMC-ConsultationService/internal/service/reservations"
	cancelBookingUC "github.com/m04kA/SMC-ConsultationService/internal/usecase/cancel_booking"
	confirmPaymentUC "github.com/m04kA/SMC-ConsultationService/internal/usecase/confirm_payment"
	createBookingUC "github.com/m04kA/SMC-ConsultationService/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/SMC-ConsultationService/internal/usecase/get_available_slots"
	getQuoteUC "github.com/m04kA/SMC-ConsultationService/internal/usecase/get_quote"
	"github.com/m04kA/SMC-ConsultationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ConsultationService/pkg/logger"
	"github.com/m04kA/SMC-ConsultationService/pkg/metrics"
	"github.com/m04kA/SMC-ConsultationService/pkg/mq"
	"github.com/m04kA/SMC-ConsultationService/pkg/obs"
	"github.com/m04kA/SMC-ConsultationService/pkg/txmanager"
)

func serveCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API and the payment event consumer",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(*configPath)
		},
	}
}

func runServer(configPath string) error {
	// Загружаем конфигурацию
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Close()

	log.Info("Starting consultation-service %s...", version)
	log.Info("Configuration loaded from %s", configPath)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	location, err := cfg.Booking.Location()
	if err != nil {
		return fmt.Errorf("booking time zone: %w", err)
	}

	// Трассировка (если включена)
	if cfg.Tracing.Enabled {
		shutdownTracer, err := obs.InitTracer(ctx, cfg.Metrics.ServiceName, version,
			cfg.Tracing.Environment, cfg.Tracing.Endpoint, cfg.Tracing.SampleRatio)
		if err != nil {
			return fmt.Errorf("init tracer: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdownTracer(shutdownCtx); err != nil {
				log.Warn("Tracer shutdown failed: %v", err)
			}
		}()
		log.Info("Tracing enabled, exporting to %s", cfg.Tracing.Endpoint)
	}

	// Метрики пишутся всегда, наружу отдаются только при metrics.enabled
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metricsCollector := metrics.New(cfg.Metrics.ServiceName, registry)

	// Подключаемся к базе данных
	db, err := openDB(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	stopMetricsCh := make(chan struct{})
	defer close(stopMetricsCh)
	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Репозитории
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	availabilityRepository := availabilityRepo.NewRepository(wrappedDB)

	// Шина событий
	var publisher createBookingUC.EventPublisher = events.NopPublisher{}

	if cfg.RabbitMQ.Enabled {
		mqPublisher, err := mq.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, cfg.Metrics.ServiceName)
		if err != nil {
			return fmt.Errorf("init rabbitmq publisher: %w", err)
		}
		defer mqPublisher.Close()
		publisher = events.NewPublisher(mqPublisher, metricsCollector, log)
		log.Info("Lifecycle events published to exchange %s", cfg.RabbitMQ.Exchange)
	} else {
		log.Warn("RabbitMQ disabled, lifecycle events are not published")
	}

	// Сервисы
	calculator, err := newCalculator(cfg)
	if err != nil {
		return err
	}
	hours, err := defaultHours(cfg)
	if err != nil {
		return err
	}
	policy := bookingPolicy(cfg)
	clock := &lease.RealTimeProvider{}

	leaseManager := lease.NewManager(
		lease.Config{
			TTL:         cfg.Booking.LeaseTTL(),
			LockWait:    cfg.Booking.LockWait(),
			TierMinutes: tierMinutes(cfg),
		},
		clock,
		lease.NewBookingOccupancy(bookingRepository),
		metricsCollector,
		log,
	)
	go leaseManager.RunSweeper(ctx, cfg.Booking.SweepInterval())

	scheduleSvc := availabilityService.NewService(availabilityRepository, hours, log)
	reservationSvc := reservationsService.NewService(leaseManager, scheduleSvc, policy, clock, location, log)
	bookingSvc := bookingsService.NewService(bookingRepository, clock, location, log)
	refundPolicy := refund.NewEvaluator()

	// Use cases
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		bookingRepository,
		scheduleSvc,
		leaseManager,
		policy,
		location,
		log,
	)
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		leaseManager,
		calculator,
		txMgr,
		publisher,
		metricsCollector,
		policy,
		location,
		log,
	)
	confirmPaymentUseCase := confirmPaymentUC.NewUseCase(
		bookingRepository,
		txMgr,
		publisher,
		metricsCollector,
		log,
	)
	cancelBookingUseCase := cancelBookingUC.NewUseCase(
		bookingRepository,
		leaseManager,
		refundPolicy,
		txMgr,
		publisher,
		metricsCollector,
		location,
		log,
	)
	getQuoteUseCase := getQuoteUC.NewUseCase(calculator, bookingSvc, log)

	// Потребитель событий платежного сервиса
	if cfg.RabbitMQ.Enabled {
		mqConsumer, err := mq.NewConsumer(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange,
			cfg.RabbitMQ.PaymentQueue, consumer.PaymentKeys, cfg.RabbitMQ.Prefetch)
		if err != nil {
			return fmt.Errorf("init rabbitmq consumer: %w", err)
		}
		defer mqConsumer.Close()

		paymentConsumer := consumer.NewPaymentConsumer(confirmPaymentUseCase, mqConsumer, log)
		go func() {
			if err := paymentConsumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("Payment consumer stopped: %v", err)
			}
		}()
		log.Info("Payment consumer listening on queue %s", cfg.RabbitMQ.PaymentQueue)
	}

	// Handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getProviderAvailability := getProviderAvailabilityHandler.NewHandler(scheduleSvc, log)
	updateProviderAvailability := updateProviderAvailabilityHandler.NewHandler(scheduleSvc, log)
	getQuote := getQuoteHandler.NewHandler(getQuoteUseCase, log)
	getEligibility := getEligibilityHandler.NewHandler(bookingSvc, log)
	acquireLease := acquireLeaseHandler.NewHandler(reservationSvc, log)
	releaseLease := releaseLeaseHandler.NewHandler(reservationSvc, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, location, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getClientBookings := getClientBookingsHandler.NewHandler(bookingSvc, log)
	getProviderBookings := getProviderBookingsHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(cancelBookingUseCase, location, log)
	paymentWebhooks := confirmPaymentHandler.NewHandler(confirmPaymentUseCase, location, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.MetricsMiddleware(metricsCollector))

	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.HandlerFor(registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Country)

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Свободные окна провайдера на дату
	api.HandleFunc("/providers/{providerId}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// Недельное расписание провайдера
	api.HandleFunc("/providers/{providerId}/availability", getProviderAvailability.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Расписание и бронирования провайдера ---
	protected.HandleFunc("/providers/{providerId}/availability", updateProviderAvailability.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/providers/{providerId}/bookings", getProviderBookings.Handle).Methods(http.MethodGet)

	// --- Цена и право на бесплатную консультацию ---
	protected.HandleFunc("/services/{serviceId}/quote", getQuote.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/clients/me/eligibility", getEligibility.Handle).Methods(http.MethodGet)

	// --- Аренда слотов ---
	protected.HandleFunc("/leases", acquireLease.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/leases", releaseLease.Handle).Methods(http.MethodDelete)

	// --- Бронирования ---
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/clients/me/bookings", getClientBookings.Handle).Methods(http.MethodGet)

	// ============================================================
	// INTERNAL ROUTES (webhook-и платежного сервиса)
	// ============================================================

	if cfg.Server.InternalToken == "" {
		log.Warn("server.internal_token is empty, /internal/payments/* rejects all requests")
	}
	internal := r.PathPrefix("/internal").Subrouter()
	internal.Use(middleware.InternalToken(cfg.Server.InternalToken))
	internal.HandleFunc("/payments/{bookingId}/confirm", paymentWebhooks.Confirm).Methods(http.MethodPost)
	internal.HandleFunc("/payments/{bookingId}/fail", paymentWebhooks.Fail).Methods(http.MethodPost)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// Ожидаем сигнал завершения или падение сервера
	select {
	case <-ctx.Done():
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	}

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
	return nil
}
