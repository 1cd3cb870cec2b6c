package create_appointment

import (
	"time"

	"github.com/google/uuid"

	createAppointment "github.com/dentistqueue/DQ-BookingService/internal/usecase/create_appointment"
)

// CreateAppointmentRequest HTTP request model
type CreateAppointmentRequest struct {
	DoctorID     uuid.UUID `json:"doctorId"`
	ServiceID    uuid.UUID `json:"serviceId"`
	StartTime    string    `json:"startTime"` // RFC3339, например "2025-10-15T09:00:00Z"
	PatientNotes *string   `json:"patientNotes,omitempty"`
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID           uuid.UUID `json:"id"`
	PatientID    uuid.UUID `json:"patientId"`
	DoctorID     uuid.UUID `json:"doctorId"`
	ServiceID    uuid.UUID `json:"serviceId"`
	StartTime    string    `json:"startTime"`
	EndTime      string    `json:"endTime"`
	Status       string    `json:"status"`
	ServiceTitle string    `json:"serviceTitle"`
	ServicePrice float64   `json:"servicePrice"`
	PatientNotes *string   `json:"patientNotes,omitempty"`
	CreatedAt    string    `json:"createdAt"`
	UpdatedAt    string    `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateAppointmentRequest) ToUseCaseRequest(patientID uuid.UUID) (*createAppointment.Request, error) {
	startTime, err := time.Parse(time.RFC3339, r.StartTime)
	if err != nil {
		return nil, err
	}

	return &createAppointment.Request{
		PatientID:    patientID,
		DoctorID:     r.DoctorID,
		ServiceID:    r.ServiceID,
		StartTime:    startTime,
		PatientNotes: r.PatientNotes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createAppointment.Response) *AppointmentResponse {
	return &AppointmentResponse{
		ID:           resp.ID,
		PatientID:    resp.PatientID,
		DoctorID:     resp.DoctorID,
		ServiceID:    resp.ServiceID,
		StartTime:    resp.StartTime.Format(time.RFC3339),
		EndTime:      resp.EndTime.Format(time.RFC3339),
		Status:       resp.Status,
		ServiceTitle: resp.ServiceTitle,
		ServicePrice: resp.ServicePrice,
		PatientNotes: resp.PatientNotes,
		CreatedAt:    resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    resp.UpdatedAt.Format(time.RFC3339),
	}
}
