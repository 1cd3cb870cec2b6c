package get_patient_appointments

import (
	"context"

	"github.com/google/uuid"

	"github.com/dentistqueue/DQ-BookingService/internal/service/appointments/models"
)

type AppointmentService interface {
	ListByPatient(ctx context.Context, patientID uuid.UUID, actorID uuid.UUID, status *string) (*models.AppointmentListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
