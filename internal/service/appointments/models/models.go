package models

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/dentistqueue/DQ-BookingService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid appointment status")
)

// Request модели

// CancelAppointmentRequest запрос на отмену записи
type CancelAppointmentRequest struct {
	ActorID uuid.UUID
	Reason  *string
}

// UpdateStatusRequest запрос на смену статуса записи
type UpdateStatusRequest struct {
	ActorID     uuid.UUID
	Status      string
	DoctorNotes *string
}

// GetDoctorAppointmentsRequest запрос на получение расписания врача
type GetDoctorAppointmentsRequest struct {
	DoctorID         uuid.UUID
	ActorID          uuid.UUID
	FromDate         *time.Time
	ToDate           *time.Time
	Status           *string
	IncludeCancelled bool
}

// ToDomainFilter конвертирует запрос в доменный фильтр
func (r *GetDoctorAppointmentsRequest) ToDomainFilter() (domain.DoctorAppointmentsFilter, error) {
	filter := domain.DoctorAppointmentsFilter{
		DoctorID:         r.DoctorID,
		FromDate:         r.FromDate,
		ToDate:           r.ToDate,
		IncludeCancelled: r.IncludeCancelled,
	}

	if r.Status != nil {
		status, err := ToDomainStatus(*r.Status)
		if err != nil {
			return domain.DoctorAppointmentsFilter{}, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// AppointmentResponse представление записи на приём
type AppointmentResponse struct {
	ID        uuid.UUID `json:"id"`
	PatientID uuid.UUID `json:"patientId"`
	DoctorID  uuid.UUID `json:"doctorId"`
	ServiceID uuid.UUID `json:"serviceId"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	Status    string    `json:"status"`

	ServiceTitle string  `json:"serviceTitle"`
	ServicePrice float64 `json:"servicePrice"`

	PatientNotes *string `json:"patientNotes,omitempty"`
	DoctorNotes  *string `json:"doctorNotes,omitempty"`

	CancellationReason *string    `json:"cancellationReason,omitempty"`
	CancelledAt        *time.Time `json:"cancelledAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AppointmentListResponse список записей
type AppointmentListResponse struct {
	Appointments []*AppointmentResponse `json:"appointments"`
	Total        int                    `json:"total"`
}

// ToDomainStatus валидирует и конвертирует строку в доменный статус
func ToDomainStatus(s string) (domain.AppointmentStatus, error) {
	status, ok := domain.ParseStatus(s)
	if !ok {
		return "", ErrInvalidStatus
	}
	return status, nil
}

// FromDomainAppointment конвертирует доменную модель в response
func FromDomainAppointment(appt *domain.Appointment) *AppointmentResponse {
	return &AppointmentResponse{
		ID:                 appt.ID,
		PatientID:          appt.PatientID,
		DoctorID:           appt.DoctorID,
		ServiceID:          appt.ServiceID,
		StartTime:          appt.StartTime,
		EndTime:            appt.EndTime,
		Status:             string(appt.Status),
		ServiceTitle:       appt.ServiceTitle,
		ServicePrice:       appt.ServicePrice,
		PatientNotes:       appt.PatientNotes,
		DoctorNotes:        appt.DoctorNotes,
		CancellationReason: appt.CancellationReason,
		CancelledAt:        appt.CancelledAt,
		CreatedAt:          appt.CreatedAt,
		UpdatedAt:          appt.UpdatedAt,
	}
}

// FromDomainAppointmentList конвертирует список доменных моделей в response
func FromDomainAppointmentList(appts []*domain.Appointment) *AppointmentListResponse {
	items := make([]*AppointmentResponse, 0, len(appts))
	for _, appt := range appts {
		items = append(items, FromDomainAppointment(appt))
	}
	return &AppointmentListResponse{
		Appointments: items,
		Total:        len(items),
	}
}
