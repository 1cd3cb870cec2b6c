package domain

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusRequested  AppointmentStatus = "requested"
	StatusConfirmed  AppointmentStatus = "confirmed"
	StatusInProgress AppointmentStatus = "in_progress"
	StatusCompleted  AppointmentStatus = "completed"
	StatusCancelled  AppointmentStatus = "cancelled"
	StatusNoShow     AppointmentStatus = "no_show"
)

// Appointment represents a dental appointment occupying a doctor's time slot
type Appointment struct {
	ID        uuid.UUID
	PatientID uuid.UUID
	DoctorID  uuid.UUID
	ServiceID uuid.UUID

	// Полуинтервал [StartTime, EndTime): конец слота не занят
	StartTime time.Time
	EndTime   time.Time
	Status    AppointmentStatus

	// Denormalized data for history
	ServiceTitle string
	ServicePrice float64

	// Заметки пациента и врача хранятся раздельно
	PatientNotes *string
	DoctorNotes  *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsCancelled returns true if the appointment has been cancelled
func (a *Appointment) IsCancelled() bool {
	return a.Status == StatusCancelled
}

// IsTerminal returns true if no further transitions are permitted
func (a *Appointment) IsTerminal() bool {
	return a.Status == StatusCompleted || a.Status == StatusCancelled || a.Status == StatusNoShow
}

// OccupiesSlot returns true if the appointment still blocks its time interval.
// Только отмена освобождает интервал.
func (a *Appointment) OccupiesSlot() bool {
	return a.Status != StatusCancelled
}

// CanBeCancelled returns true if the appointment can still be cancelled
func (a *Appointment) CanBeCancelled() bool {
	return !a.IsTerminal()
}

// Overlaps reports whether the appointment interval intersects [start, end)
// under half-open semantics: touching endpoints do not overlap.
func (a *Appointment) Overlaps(start, end time.Time) bool {
	return a.StartTime.Before(end) && a.EndTime.After(start)
}

// CanTransitionTo проверяет допустимость перехода статуса:
//
//	requested   -> confirmed, cancelled
//	confirmed   -> in_progress, cancelled, no_show
//	in_progress -> completed, cancelled
//	completed, cancelled, no_show - терминальные
func (a *Appointment) CanTransitionTo(next AppointmentStatus) bool {
	switch a.Status {
	case StatusRequested:
		return next == StatusConfirmed || next == StatusCancelled
	case StatusConfirmed:
		return next == StatusInProgress || next == StatusCancelled || next == StatusNoShow
	case StatusInProgress:
		return next == StatusCompleted || next == StatusCancelled
	default:
		return false
	}
}

// DoctorAppointmentsFilter фильтр для получения расписания врача
type DoctorAppointmentsFilter struct {
	DoctorID         uuid.UUID          // Обязательный параметр
	FromDate         *time.Time         // Начало периода (опционально)
	ToDate           *time.Time         // Конец периода (опционально)
	Status           *AppointmentStatus // Фильтр по статусу (опционально)
	IncludeCancelled bool               // Включать ли отменённые записи
}
