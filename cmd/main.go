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

	cancelAppointmentHandler "github.com/dentistqueue/DQ-BookingService/internal/api/handlers/cancel_appointment"
	createAppointmentHandler "github.com/dentistqueue/DQ-BookingService/internal/api/handlers/create_appointment"
	getAppointmentHandler "github.com/dentistqueue/DQ-BookingService/internal/api/handlers/get_appointment"
	getDoctorAppointmentsHandler "github.com/dentistqueue/DQ-BookingService/internal/api/handlers/get_doctor_appointments"
	getPatientAppointmentsHandler "github.com/dentistqueue/DQ-BookingService/internal/api/handlers/get_patient_appointments"
	updateStatusHandler "github.com/dentistqueue/DQ-BookingService/internal/api/handlers/update_appointment_status"
	"github.com/dentistqueue/DQ-BookingService/internal/api/middleware"
	"github.com/dentistqueue/DQ-BookingService/internal/config"
	"github.com/dentistqueue/DQ-BookingService/internal/domain"
	appointmentRepo "github.com/dentistqueue/DQ-BookingService/internal/infra/storage/appointment"
	doctorRepo "github.com/dentistqueue/DQ-BookingService/internal/infra/storage/doctor"
	notifierClient "github.com/dentistqueue/DQ-BookingService/internal/integrations/notifier"
	appointmentsService "github.com/dentistqueue/DQ-BookingService/internal/service/appointments"
	createAppointmentUC "github.com/dentistqueue/DQ-BookingService/internal/usecase/create_appointment"
	"github.com/dentistqueue/DQ-BookingService/pkg/dbmetrics"
	"github.com/dentistqueue/DQ-BookingService/pkg/logger"
	"github.com/dentistqueue/DQ-BookingService/pkg/metrics"
	"github.com/dentistqueue/DQ-BookingService/pkg/simpletxmanager"
	"github.com/dentistqueue/DQ-BookingService/pkg/txmanager"
)

// Notifier общий интерфейс уведомлений для usecase и сервиса
type Notifier interface {
	AppointmentCreated(ctx context.Context, appt *domain.Appointment)
	AppointmentCancelled(ctx context.Context, appt *domain.Appointment, reason *string)
	AppointmentStatusChanged(ctx context.Context, appt *domain.Appointment, newStatus domain.AppointmentStatus)
}

// noopNotifier заглушка, когда notifier выключен в конфиге
type noopNotifier struct{}

func (noopNotifier) AppointmentCreated(context.Context, *domain.Appointment) {}
func (noopNotifier) AppointmentCancelled(context.Context, *domain.Appointment, *string) {
}
func (noopNotifier) AppointmentStatusChanged(context.Context, *domain.Appointment, domain.AppointmentStatus) {
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

	log.Info("Starting DQ-BookingService...")
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

	// Инициализируем клиента сервиса уведомлений
	var notifier Notifier = noopNotifier{}
	if cfg.Notifier.Enabled {
		notifier = notifierClient.NewClient(
			cfg.Notifier.URL,
			time.Duration(cfg.Notifier.Timeout)*time.Second,
			log,
		)
		log.Info("Notifier client initialized (url=%s, timeout=%ds)", cfg.Notifier.URL, cfg.Notifier.Timeout)
	} else {
		log.Info("Notifier disabled")
	}

	// Инициализируем репозитории (с метриками или без)
	var (
		appointmentRepository *appointmentRepo.Repository
		doctorRepository      *doctorRepo.Repository
	)

	// Интерфейс transaction manager (используется в usecase)
	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		appointmentRepository = appointmentRepo.NewRepository(wrappedDB)
		doctorRepository = doctorRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		appointmentRepository = appointmentRepo.NewRepository(db)
		doctorRepository = doctorRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервис записей
	appointmentSvc := appointmentsService.NewService(
		appointmentRepository,
		notifier,
		log,
	)

	// Инициализируем use case создания записи
	createAppointmentUseCase := createAppointmentUC.NewUseCase(
		appointmentRepository,
		doctorRepository,
		notifier,
		txMgr,
		log,
	)

	// Инициализируем handlers
	createAppointment := createAppointmentHandler.NewHandler(createAppointmentUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentSvc, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(appointmentSvc, log)
	updateStatus := updateStatusHandler.NewHandler(appointmentSvc, log)
	getPatientAppointments := getPatientAppointmentsHandler.NewHandler(appointmentSvc, log)
	getDoctorAppointments := getDoctorAppointmentsHandler.NewHandler(appointmentSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Metrics middleware и endpoint (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// Все маршруты требуют аутентификации (X-User-ID header)
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Записи на приём ---
	// Создание записи
	protected.HandleFunc("/appointments", createAppointment.Handle).Methods(http.MethodPost)

	// Получение записи по ID
	protected.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)

	// Отмена записи
	protected.HandleFunc("/appointments/{appointmentId}/cancel", cancelAppointment.Handle).Methods(http.MethodPatch)

	// Смена статуса записи (по таблице переходов)
	protected.HandleFunc("/appointments/{appointmentId}/status", updateStatus.Handle).Methods(http.MethodPatch)

	// История записей пациента
	protected.HandleFunc("/patients/{patientId}/appointments", getPatientAppointments.Handle).Methods(http.MethodGet)

	// Расписание врача
	protected.HandleFunc("/doctors/{doctorId}/appointments", getDoctorAppointments.Handle).Methods(http.MethodGet)

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

	// Останавливаем сбор метрик connection pool
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
