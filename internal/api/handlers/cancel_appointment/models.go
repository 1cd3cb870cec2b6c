package cancel_appointment

import (
	"github.com/google/uuid"

	"github.com/dentistqueue/DQ-BookingService/internal/service/appointments/models"
)

// CancelAppointmentRequest HTTP request model
type CancelAppointmentRequest struct {
	Reason *string `json:"reason,omitempty"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *CancelAppointmentRequest) ToServiceRequest(actorID uuid.UUID) *models.CancelAppointmentRequest {
	return &models.CancelAppointmentRequest{
		ActorID: actorID,
		Reason:  r.Reason,
	}
}
