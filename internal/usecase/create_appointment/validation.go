package create_appointment

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dentistqueue/DQ-BookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.PatientID == uuid.Nil {
		return fmt.Errorf("%w: patientID is required", ErrInvalidInput)
	}

	if req.DoctorID == uuid.Nil {
		return fmt.Errorf("%w: doctorID is required", ErrInvalidInput)
	}

	if req.ServiceID == uuid.Nil {
		return fmt.Errorf("%w: serviceID is required", ErrInvalidInput)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	if req.PatientNotes != nil && len(*req.PatientNotes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: patientNotes exceeds %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// validateStartTime проверяет, что время начала приёма не в прошлом
func validateStartTime(startTime, now time.Time) error {
	if startTime.Before(now) {
		return ErrStartTimeInPast
	}
	return nil
}

// validateService проверяет, что услуга принадлежит врачу, открыта для записи
// и имеет допустимую длительность
func validateService(service *domain.Service, doctorID uuid.UUID) error {
	if !service.BelongsTo(doctorID) {
		return ErrServiceNotFound
	}

	if !service.IsActive {
		return ErrServiceNotFound
	}

	if !service.HasValidDuration() {
		return fmt.Errorf("%w: service duration %d minutes is out of bounds [%d, %d]",
			ErrInvalidInput, service.DurationMinutes, domain.MinServiceDurationMinutes, domain.MaxServiceDurationMinutes)
	}

	return nil
}

// hasOverlap проверяет пересечение полуинтервала [start, end) с существующими
// записями. Отменённые записи не занимают интервал; границы не пересекаются
// (запись до 09:30 не конфликтует с записью с 09:30).
func hasOverlap(appointments []*domain.Appointment, start, end time.Time) bool {
	for _, appt := range appointments {
		if !appt.OccupiesSlot() {
			continue
		}
		if appt.Overlaps(start, end) {
			return true
		}
	}
	return false
}
