package get_doctor_appointments

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/dentistqueue/DQ-BookingService/internal/api/handlers"
	"github.com/dentistqueue/DQ-BookingService/internal/api/middleware"
	"github.com/dentistqueue/DQ-BookingService/internal/service/appointments"
)

const (
	msgInvalidDoctorID = "некорректный ID врача"
	msgInvalidQuery    = "некорректные параметры фильтрации, ожидается YYYY-MM-DD"
	msgInvalidStatus   = "некорректный статус записи"
	msgForbidden       = "доступ запрещен"
	msgUnauthorized    = "пользователь не аутентифицирован"
)

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/doctors/{doctorId}/appointments?from=&to=&status=&include_cancelled=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	vars := mux.Vars(r)
	doctorID, err := uuid.Parse(vars["doctorId"])
	if err != nil {
		h.logger.Warn("GET /doctors/{id}/appointments - Invalid doctor ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDoctorID)
		return
	}

	req, err := ParseQuery(r.URL.Query(), doctorID, actorID)
	if err != nil {
		h.logger.Warn("GET /doctors/{id}/appointments - Invalid query: doctor_id=%s, error=%v", doctorID, err)
		handlers.RespondBadRequest(w, msgInvalidQuery)
		return
	}

	result, err := h.service.ListByDoctor(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrAccessDenied):
			h.logger.Warn("GET /doctors/{id}/appointments - Access denied: doctor_id=%s, actor_id=%s",
				doctorID, actorID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, appointments.ErrInvalidInput):
			h.logger.Warn("GET /doctors/{id}/appointments - Invalid status filter: doctor_id=%s", doctorID)
			handlers.RespondBadRequest(w, msgInvalidStatus)

		default:
			h.logger.Error("GET /doctors/{id}/appointments - Failed to fetch appointments: doctor_id=%s, error=%v",
				doctorID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
