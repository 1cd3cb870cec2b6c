package create_appointment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dentistqueue/DQ-BookingService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей на приём
type AppointmentRepository interface {
	Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error)
	ListOverlapping(ctx context.Context, doctorID uuid.UUID, start, end time.Time) ([]*domain.Appointment, error)
}

// DoctorRepository интерфейс репозитория врачей и их услуг
type DoctorRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Doctor, error)
	GetService(ctx context.Context, serviceID uuid.UUID) (*domain.Service, error)
}

// Notifier интерфейс сервиса уведомлений (best-effort, после успешного создания)
type Notifier interface {
	AppointmentCreated(ctx context.Context, appt *domain.Appointment)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
