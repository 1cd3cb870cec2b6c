package update_appointment_status

import (
	"github.com/google/uuid"

	"github.com/dentistqueue/DQ-BookingService/internal/service/appointments/models"
)

// UpdateStatusRequest HTTP request model
type UpdateStatusRequest struct {
	Status      string  `json:"status"`
	DoctorNotes *string `json:"doctorNotes,omitempty"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *UpdateStatusRequest) ToServiceRequest(actorID uuid.UUID) *models.UpdateStatusRequest {
	return &models.UpdateStatusRequest{
		ActorID:     actorID,
		Status:      r.Status,
		DoctorNotes: r.DoctorNotes,
	}
}
