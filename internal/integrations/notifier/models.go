package notifier

import (
	"time"

	"github.com/google/uuid"
)

// EventType тип события для сервиса уведомлений
type EventType string

const (
	EventAppointmentCreated       EventType = "appointment.created"
	EventAppointmentCancelled     EventType = "appointment.cancelled"
	EventAppointmentStatusChanged EventType = "appointment.status_changed"
)

// Event событие, отправляемое в сервис уведомлений
type Event struct {
	Type          EventType `json:"type"`
	AppointmentID uuid.UUID `json:"appointment_id"`
	PatientID     uuid.UUID `json:"patient_id"`
	DoctorID      uuid.UUID `json:"doctor_id"`
	StartTime     time.Time `json:"start_time"`
	Status        string    `json:"status"`
	Reason        *string   `json:"reason,omitempty"`
}

// ErrorResponse модель ошибки от сервиса уведомлений
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
