package get_doctor_appointments

import (
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/dentistqueue/DQ-BookingService/internal/domain"
	"github.com/dentistqueue/DQ-BookingService/internal/service/appointments/models"
)

// ParseQuery собирает запрос сервиса из query-параметров:
// from, to (YYYY-MM-DD), status, include_cancelled
func ParseQuery(query url.Values, doctorID, actorID uuid.UUID) (*models.GetDoctorAppointmentsRequest, error) {
	req := &models.GetDoctorAppointmentsRequest{
		DoctorID: doctorID,
		ActorID:  actorID,
	}

	if raw := query.Get("from"); raw != "" {
		from, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			return nil, err
		}
		req.FromDate = &from
	}

	if raw := query.Get("to"); raw != "" {
		to, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			return nil, err
		}
		// Верхняя граница - начало следующего дня (полуинтервал)
		end := to.AddDate(0, 0, 1)
		req.ToDate = &end
	}

	if raw := query.Get("status"); raw != "" {
		req.Status = &raw
	}

	req.IncludeCancelled = query.Get("include_cancelled") == "true"

	return req, nil
}
