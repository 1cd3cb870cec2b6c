package get_doctor_appointments

import (
	"context"

	"github.com/dentistqueue/DQ-BookingService/internal/service/appointments/models"
)

type AppointmentService interface {
	ListByDoctor(ctx context.Context, req *models.GetDoctorAppointmentsRequest) (*models.AppointmentListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
