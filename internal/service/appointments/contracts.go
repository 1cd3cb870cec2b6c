package appointments

import (
	"context"

	"github.com/google/uuid"

	"github.com/dentistqueue/DQ-BookingService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей на приём
type AppointmentRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Appointment, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, status *domain.AppointmentStatus) ([]*domain.Appointment, error)
	ListByDoctorWithFilter(ctx context.Context, filter domain.DoctorAppointmentsFilter) ([]*domain.Appointment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.AppointmentStatus, doctorNotes *string) error
	Cancel(ctx context.Context, id uuid.UUID, reason string) error
}

// Notifier интерфейс сервиса уведомлений (best-effort)
type Notifier interface {
	AppointmentCancelled(ctx context.Context, appt *domain.Appointment, reason *string)
	AppointmentStatusChanged(ctx context.Context, appt *domain.Appointment, newStatus domain.AppointmentStatus)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
