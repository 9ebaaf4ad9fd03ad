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

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	bookNextAvailableHandler "laundry-booking-service/internal/api/handlers/book_next_available"
	cancelReservationHandler "laundry-booking-service/internal/api/handlers/cancel_reservation"
	createBookingHandler "laundry-booking-service/internal/api/handlers/create_booking"
	getCalendarHandler "laundry-booking-service/internal/api/handlers/get_calendar"
	getMachineStatusHandler "laundry-booking-service/internal/api/handlers/get_machine_status"
	getMyReservationsHandler "laundry-booking-service/internal/api/handlers/get_my_reservations"
	getReservationHandler "laundry-booking-service/internal/api/handlers/get_reservation"
	getVapidKeyHandler "laundry-booking-service/internal/api/handlers/get_vapid_key"
	savePushSubscriptionHandler "laundry-booking-service/internal/api/handlers/save_push_subscription"
	"laundry-booking-service/internal/api/middleware"
	"laundry-booking-service/internal/config"
	"laundry-booking-service/internal/domain"
	reservationRepo "laundry-booking-service/internal/infra/storage/reservation"
	subscriptionRepo "laundry-booking-service/internal/infra/storage/subscription"
	"laundry-booking-service/internal/integrations/homeassistant"
	"laundry-booking-service/internal/machinestate"
	"laundry-booking-service/internal/notification"
	reservationsService "laundry-booking-service/internal/service/reservations"
	bookNextAvailableUC "laundry-booking-service/internal/usecase/book_next_available"
	createBookingUC "laundry-booking-service/internal/usecase/create_booking"
	"laundry-booking-service/pkg/dbmetrics"
	"laundry-booking-service/pkg/logger"
	"laundry-booking-service/pkg/metrics"
	"laundry-booking-service/pkg/simpletxmanager"
	"laundry-booking-service/pkg/txmanager"
)

// TTL кэша статуса машин: фронтенд опрашивает чаще, чем фид обновляется
const statusCacheTTL = 30 * time.Second

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

	log.Info("Starting laundry-booking-service...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

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

	// Инициализируем репозитории (с метриками или без)
	var (
		reservationRepository  *reservationRepo.Repository
		subscriptionRepository *subscriptionRepo.Repository
	)

	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		reservationRepository = reservationRepo.NewRepository(wrappedDB)
		subscriptionRepository = subscriptionRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		reservationRepository = reservationRepo.NewRepository(db)
		subscriptionRepository = subscriptionRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Правила бронирования из конфигурации
	constraints := domain.BookingConstraints{
		DurationMinutes: cfg.Booking.DefaultDurationMinutes,
		OperatingWindow: domain.OperatingWindow{
			StartHour: cfg.Booking.OperatingWindowStartHour,
			EndHour:   cfg.Booking.OperatingWindowEndHour,
		},
		SearchHorizonDays:  cfg.Booking.SearchHorizonDays,
		MinimumLeadMinutes: cfg.Booking.MinimumLeadMinutes,
	}
	location := cfg.Booking.Location()
	log.Info("Booking rules: window %02d:00-%02d:00 %s, horizon %d days, lead %d min",
		cfg.Booking.OperatingWindowStartHour, cfg.Booking.OperatingWindowEndHour,
		cfg.Booking.Timezone, cfg.Booking.SearchHorizonDays, cfg.Booking.MinimumLeadMinutes)

	// Пул воркеров push-уведомлений (если включены)
	var notificationPool *notification.WorkerPool
	if cfg.Notifications.Enabled {
		webpushOptions := &webpush.Options{
			Subscriber:      cfg.Notifications.Subject,
			VAPIDPublicKey:  cfg.Notifications.VAPIDPublicKey,
			VAPIDPrivateKey: cfg.Notifications.VAPIDPrivateKey,
			TTL:             cfg.Notifications.TTL,
		}
		var notifMetrics notification.Metrics
		if metricsCollector != nil {
			notifMetrics = metricsCollector
		}
		notificationPool = notification.NewWorkerPool(
			cfg.Notifications.WorkerPoolSize,
			subscriptionRepository,
			webpushOptions,
			notifMetrics,
			log,
		)
		log.Info("Push notifications enabled (%d workers)", cfg.Notifications.WorkerPoolSize)
	}

	// Notifier для use cases: nil-интерфейс нельзя собирать из nil-указателя
	var notifier createBookingUC.Notifier
	if notificationPool != nil {
		notifier = notificationPool
	}

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		reservationRepository,
		txMgr,
		notifier,
		constraints,
		location,
		log,
	)

	var autoBookNotifier bookNextAvailableUC.Notifier
	if notificationPool != nil {
		autoBookNotifier = notificationPool
	}
	bookNextAvailableUseCase := bookNextAvailableUC.NewUseCase(
		reservationRepository,
		autoBookNotifier,
		constraints,
		location,
		cfg.Booking.MaxAutoBookRetries,
		log,
	)

	// Инициализируем сервисы
	reservationSvc := reservationsService.NewService(reservationRepository, log)

	// Фид состояния машин и reconciler
	haClient := homeassistant.NewClient(
		cfg.HomeAssistant.BaseURL,
		cfg.HomeAssistant.Token,
		cfg.HomeAssistant.Enabled,
		map[domain.ResourceID]homeassistant.MachineEntities{
			domain.ResourceWasher: {
				Running:       cfg.HomeAssistant.Washer.Running,
				TimeRemaining: cfg.HomeAssistant.Washer.TimeRemaining,
				Status:        cfg.HomeAssistant.Washer.Status,
				EndOfCycle:    cfg.HomeAssistant.Washer.EndOfCycle,
			},
			domain.ResourceDryer: {
				Running:       cfg.HomeAssistant.Dryer.Running,
				TimeRemaining: cfg.HomeAssistant.Dryer.TimeRemaining,
				Status:        cfg.HomeAssistant.Dryer.Status,
				EndOfCycle:    cfg.HomeAssistant.Dryer.EndOfCycle,
			},
		},
		time.Duration(cfg.HomeAssistant.TimeoutSeconds)*time.Second,
		cfg.HomeAssistant.RateLimitPerSec,
		log,
	)

	// Сэмпл устаревает после одного пропущенного цикла опроса
	reconciler := machinestate.NewReconciler(2 * cfg.HomeAssistant.PollInterval())

	var onFinished machinestate.FinishedFunc
	if notificationPool != nil {
		onFinished = notificationPool.MachineFinished
	}

	var pollerMetrics machinestate.Metrics
	if metricsCollector != nil {
		pollerMetrics = metricsCollector
	}
	poller := machinestate.NewPoller(
		haClient,
		reconciler,
		[]domain.ResourceID{domain.ResourceWasher, domain.ResourceDryer},
		cfg.HomeAssistant.PollInterval(),
		onFinished,
		pollerMetrics,
		log,
	)

	// Фоновые горутины живут до общего cancel
	backgroundCtx, cancelBackground := context.WithCancel(context.Background())
	defer cancelBackground()

	if notificationPool != nil {
		notificationPool.Start(backgroundCtx)

		// Напоминания о скором начале брони идут через тот же пул
		reminder := notification.NewReminder(
			reservationRepository,
			notificationPool,
			cfg.Notifications.ReminderLead(),
			log,
		)
		go reminder.Run(backgroundCtx)
	}
	go poller.Run(backgroundCtx)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	bookNextAvailable := bookNextAvailableHandler.NewHandler(bookNextAvailableUseCase, log)
	getReservation := getReservationHandler.NewHandler(reservationSvc, log)
	getCalendar := getCalendarHandler.NewHandler(reservationSvc, log)
	getMyReservations := getMyReservationsHandler.NewHandler(reservationSvc, log)
	cancelReservation := cancelReservationHandler.NewHandler(reservationSvc, log)
	getMachineStatus := getMachineStatusHandler.NewHandler(reconciler, log)
	savePushSubscription := savePushSubscriptionHandler.NewHandler(subscriptionRepository, log)
	getVapidKey := getVapidKeyHandler.NewHandler(cfg.Notifications.VAPIDPublicKey)

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Общий календарь бронирований
	api.HandleFunc("/reservations", getCalendar.Handle).Methods(http.MethodGet)

	// Бронирование по ID
	api.HandleFunc("/reservations/{reservationId:[0-9]+}", getReservation.Handle).Methods(http.MethodGet)

	// Статус машины (с коротким кэшем)
	statusCache := middleware.NewResponseCache(statusCacheTTL)
	api.Handle("/machines/{machineId}/status",
		statusCache.Middleware(http.HandlerFunc(getMachineStatus.Handle))).Methods(http.MethodGet)

	// Публичный VAPID ключ для подписки на push
	api.HandleFunc("/push/vapid-public-key", getVapidKey.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// Создание бронирования с явным интервалом
	protected.HandleFunc("/reservations", createBooking.Handle).Methods(http.MethodPost)

	// Авто-бронирование ближайшего свободного слота
	protected.HandleFunc("/reservations/next-available", bookNextAvailable.Handle).Methods(http.MethodPost)

	// Отмена бронирования (только своего)
	protected.HandleFunc("/reservations/{reservationId:[0-9]+}", cancelReservation.Handle).Methods(http.MethodDelete)

	// Бронирования текущего пользователя
	protected.HandleFunc("/users/me/reservations", getMyReservations.Handle).Methods(http.MethodGet)

	// Подписка на push-уведомления
	protected.HandleFunc("/push/subscriptions", savePushSubscription.Handle).Methods(http.MethodPost)

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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем поллер и воркеры уведомлений
	cancelBackground()

	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

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
