package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelBookingHandler "github.com/m04kA/TLP-LaunchService/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/m04kA/TLP-LaunchService/internal/api/handlers/create_booking"
	getAvailabilityHandler "github.com/m04kA/TLP-LaunchService/internal/api/handlers/get_availability"
	getSlotHandler "github.com/m04kA/TLP-LaunchService/internal/api/handlers/get_slot"
	getUserBookingsHandler "github.com/m04kA/TLP-LaunchService/internal/api/handlers/get_user_bookings"
	"github.com/m04kA/TLP-LaunchService/internal/api/middleware"
	"github.com/m04kA/TLP-LaunchService/internal/config"
	slotRepo "github.com/m04kA/TLP-LaunchService/internal/infra/storage/slot"
	productServiceClient "github.com/m04kA/TLP-LaunchService/internal/integrations/productservice"
	slotsService "github.com/m04kA/TLP-LaunchService/internal/service/slots"
	createBookingUC "github.com/m04kA/TLP-LaunchService/internal/usecase/create_booking"
	getAvailabilityUC "github.com/m04kA/TLP-LaunchService/internal/usecase/get_availability"
	"github.com/m04kA/TLP-LaunchService/migrations"
	"github.com/m04kA/TLP-LaunchService/pkg/dbmetrics"
	"github.com/m04kA/TLP-LaunchService/pkg/logger"
	"github.com/m04kA/TLP-LaunchService/pkg/metrics"
	"github.com/m04kA/TLP-LaunchService/pkg/simpletxmanager"
	"github.com/m04kA/TLP-LaunchService/pkg/txmanager"
)

// TxManager интерфейс transaction manager (используется в usecases и сервисах)
type TxManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
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

	log.Info("Starting TLP-LaunchService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Применяем миграции
	if err := migrations.Up(db); err != nil {
		log.Fatal("Failed to apply migrations: %v", err)
	}
	log.Info("Database migrations applied")

	// Инициализируем интеграционных клиентов
	productClient := productServiceClient.NewClient(
		cfg.ProductService.URL,
		time.Duration(cfg.ProductService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (ProductService=%s timeout=%ds)",
		cfg.ProductService.URL, cfg.ProductService.Timeout)

	// Политика бронирования
	policy := cfg.Booking.Policy()
	log.Info("Booking policy: capacity=%d, non_premium_cap=%d, overflow=%t, window=%d, horizon=%d",
		policy.Capacity, policy.NonPremiumCap, policy.AllowNonPremiumOverflow, policy.WindowDays, policy.HorizonDays)

	// Инициализируем репозиторий и transaction manager (с метриками или без)
	var (
		slotRepository *slotRepo.Repository
		txMgr          TxManager
	)

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopCh)
		log.Info("Database metrics collection started")

		slotRepository = slotRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		slotRepository = slotRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	slotSvc := slotsService.NewService(slotRepository, txMgr, policy, log)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		slotRepository,
		productClient,
		txMgr,
		policy,
		log,
	)

	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(
		slotRepository,
		policy,
		log,
	)

	// Предсоздаем окно слотов и запускаем ежедневное поддержание
	windowDays := cfg.Booking.SlotWindowDays
	if err := slotSvc.EnsureWindow(context.Background(), windowDays); err != nil {
		log.Error("Failed to ensure slot window on startup: %v", err)
	}
	go runWindowJob(slotSvc, windowDays, stopCh, log)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getAvailability := getAvailabilityHandler.NewHandler(getAvailabilityUseCase, log)
	cancelBooking := cancelBookingHandler.NewHandler(slotSvc, log)
	getSlot := getSlotHandler.NewHandler(slotSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(slotSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Сквозные middleware
	r.Use(middleware.RequestID(log))
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Доступность дат запуска (опционально с текущей датой продукта)
	api.HandleFunc("/availability", getAvailability.Handle).Methods(http.MethodGet)

	// Слот на дату со списком запусков дня
	api.HandleFunc("/slots/{date}", getSlot.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// Бронирование слота запуска (явная дата или автоподбор)
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Отмена бронирования (идемпотентно)
	protected.HandleFunc("/bookings/{productId}", cancelBooking.Handle).Methods(http.MethodDelete)

	// Бронирования пользователя
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)

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
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем фоновые задачи и сбор метрик connection pool
	close(stopCh)

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

// runWindowJob раз в сутки поддерживает окно предсозданных слотов
func runWindowJob(svc *slotsService.Service, windowDays int, stopCh <-chan struct{}, log *logger.Logger) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			if err := svc.EnsureWindow(context.Background(), windowDays); err != nil {
				log.Error("Slot window job failed: %v", err)
			}
		}
	}
}
