package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"

	cancelAppointmentHandler "github.com/m04kA/TurnsBookingService/internal/api/handlers/cancel_appointment"
	createAppointmentHandler "github.com/m04kA/TurnsBookingService/internal/api/handlers/create_appointment"
	getAppointmentHandler "github.com/m04kA/TurnsBookingService/internal/api/handlers/get_appointment"
	getAvailableSlotsHandler "github.com/m04kA/TurnsBookingService/internal/api/handlers/get_available_slots"
	getBusinessAppointmentsHandler "github.com/m04kA/TurnsBookingService/internal/api/handlers/get_business_appointments"
	getCustomerAppointmentsHandler "github.com/m04kA/TurnsBookingService/internal/api/handlers/get_customer_appointments"
	getSchedulesHandler "github.com/m04kA/TurnsBookingService/internal/api/handlers/get_schedules"
	rescheduleAppointmentHandler "github.com/m04kA/TurnsBookingService/internal/api/handlers/reschedule_appointment"
	updateAppointmentStatusHandler "github.com/m04kA/TurnsBookingService/internal/api/handlers/update_appointment_status"
	upsertScheduleHandler "github.com/m04kA/TurnsBookingService/internal/api/handlers/upsert_schedule"
	"github.com/m04kA/TurnsBookingService/internal/api/middleware"
	"github.com/m04kA/TurnsBookingService/internal/config"
	appointmentRepo "github.com/m04kA/TurnsBookingService/internal/infra/storage/appointment"
	businessRepo "github.com/m04kA/TurnsBookingService/internal/infra/storage/business"
	catalogRepo "github.com/m04kA/TurnsBookingService/internal/infra/storage/catalog"
	scheduleRepo "github.com/m04kA/TurnsBookingService/internal/infra/storage/schedule"
	"github.com/m04kA/TurnsBookingService/internal/integrations/notifier"
	appointmentsService "github.com/m04kA/TurnsBookingService/internal/service/appointments"
	"github.com/m04kA/TurnsBookingService/internal/service/availability"
	schedulesService "github.com/m04kA/TurnsBookingService/internal/service/schedules"
	createAppointmentUC "github.com/m04kA/TurnsBookingService/internal/usecase/create_appointment"
	getAvailableSlotsUC "github.com/m04kA/TurnsBookingService/internal/usecase/get_available_slots"
	rescheduleAppointmentUC "github.com/m04kA/TurnsBookingService/internal/usecase/reschedule_appointment"
	"github.com/m04kA/TurnsBookingService/pkg/dbmetrics"
	"github.com/m04kA/TurnsBookingService/pkg/keylock"
	"github.com/m04kA/TurnsBookingService/pkg/logger"
	"github.com/m04kA/TurnsBookingService/pkg/metrics"
	"github.com/m04kA/TurnsBookingService/pkg/migrations"
	"github.com/m04kA/TurnsBookingService/pkg/txmanager"
)

func main() {
	configPath := "config.toml"
	if p := os.Getenv("TURNS_CONFIG"); p != "" {
		configPath = p
	}

	// Загружаем конфигурацию
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting TurnsBookingService...")
	log.Info("Configuration loaded from %s", configPath)

	// Метрики (nil - выключены, все вызовы становятся no-op)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New()
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	pingCtx, cancelPing := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelPing()
	if err := db.PingContext(pingCtx); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Миграции
	if cfg.Database.AutoMigrate {
		migrator, err := migrations.NewMigrator(db)
		if err != nil {
			log.Fatal("Failed to init migrator: %v", err)
		}
		if err := migrator.Up(context.Background()); err != nil {
			log.Fatal("Failed to apply migrations: %v", err)
		}
		version, err := migrator.Version(context.Background())
		if err != nil {
			log.Fatal("Failed to read schema version: %v", err)
		}
		log.Info("Database schema is at version %d", version)
	}

	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Репозитории
	businessRepository := businessRepo.NewRepository(wrappedDB)
	serviceRepository := catalogRepo.NewRepository(wrappedDB)
	scheduleRepository := scheduleRepo.NewRepository(wrappedDB)
	appointmentRepository := appointmentRepo.NewRepository(wrappedDB)

	// Шлюз уведомлений
	notifierClient := notifier.NewClient(
		cfg.Notifier.URL,
		time.Duration(cfg.Notifier.Timeout)*time.Second,
		cfg.Notifier.MaxRetries,
		log,
	)
	if notifierClient.Enabled() {
		log.Info("Notifier enabled (url=%s, timeout=%ds, retries=%d)",
			cfg.Notifier.URL, cfg.Notifier.Timeout, cfg.Notifier.MaxRetries)
	} else {
		log.Warn("Notifier URL is empty, appointment events will not be published")
	}

	// Движок доступности и блокировка дней
	clock := &availability.RealTimeProvider{}
	engine := availability.NewEngine(
		businessRepository,
		serviceRepository,
		scheduleRepository,
		appointmentRepository,
		clock,
	)
	dayLocks := keylock.New()

	// Сервисы
	appointmentsSvc := appointmentsService.NewService(
		appointmentRepository,
		businessRepository,
		txMgr,
		notifierClient,
		clock,
		log,
	)
	schedulesSvc := schedulesService.NewService(
		scheduleRepository,
		businessRepository,
		log,
	)

	// Use cases
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		engine,
		metricsCollector,
		cfg.Metrics.ServiceName,
		log,
	)
	createAppointmentUseCase := createAppointmentUC.NewUseCase(
		appointmentRepository,
		serviceRepository,
		engine,
		dayLocks,
		txMgr,
		notifierClient,
		metricsCollector,
		cfg.Metrics.ServiceName,
		log,
	)
	rescheduleAppointmentUseCase := rescheduleAppointmentUC.NewUseCase(
		appointmentRepository,
		businessRepository,
		serviceRepository,
		engine,
		dayLocks,
		txMgr,
		notifierClient,
		metricsCollector,
		cfg.Metrics.ServiceName,
		log,
	)

	// Handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getSchedules := getSchedulesHandler.NewHandler(schedulesSvc, log)
	upsertSchedule := upsertScheduleHandler.NewHandler(schedulesSvc, log)
	createAppointment := createAppointmentHandler.NewHandler(createAppointmentUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentsSvc, log)
	rescheduleAppointment := rescheduleAppointmentHandler.NewHandler(rescheduleAppointmentUseCase, log)
	updateAppointmentStatus := updateAppointmentStatusHandler.NewHandler(appointmentsSvc, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(appointmentsSvc, log)
	getBusinessAppointments := getBusinessAppointmentsHandler.NewHandler(appointmentsSvc, log)
	getCustomerAppointments := getCustomerAppointmentsHandler.NewHandler(appointmentsSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		r.Handle(cfg.Metrics.Path, metricsCollector.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Слоты дня для услуги
	api.HandleFunc("/businesses/{businessId}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// Недельное расписание бизнеса
	api.HandleFunc("/businesses/{businessId}/schedules", getSchedules.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Записи ---
	protected.HandleFunc("/appointments", createAppointment.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{appointmentId}/reschedule", rescheduleAppointment.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/appointments/{appointmentId}/status", updateAppointmentStatus.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/appointments/{appointmentId}/cancel", cancelAppointment.Handle).Methods(http.MethodPatch)

	// История записей клиента
	protected.HandleFunc("/users/{userId}/appointments", getCustomerAppointments.Handle).Methods(http.MethodGet)

	// --- Управление бизнесом (для владельца) ---
	protected.HandleFunc("/businesses/{businessId}/appointments", getBusinessAppointments.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/businesses/{businessId}/schedules/{dayOfWeek}", upsertSchedule.Handle).Methods(http.MethodPut)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	close(stopMetricsCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
