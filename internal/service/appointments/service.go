package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dentistqueue/DQ-BookingService/internal/domain"
	appointmentRepo "github.com/dentistqueue/DQ-BookingService/internal/infra/storage/appointment"
	"github.com/dentistqueue/DQ-BookingService/internal/service/appointments/models"
)

// Service сервис для работы с записями на приём
type Service struct {
	appointmentRepo AppointmentRepository
	notifier        Notifier
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	notifier Notifier,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		notifier:        notifier,
		logger:          logger,
	}
}

// GetByID получает запись по ID.
// Доступ имеют только пациент и врач этой записи.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID, actorID uuid.UUID) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%s for actor=%s", id, actorID)

	appt, err := s.getAppointment(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	if err := s.checkActorAccess(appt, actorID); err != nil {
		s.logger.Warn("GetByID: access denied for actor=%s to appointment id=%s", actorID, id)
		return nil, err
	}

	s.logger.Info("GetByID: successfully fetched appointment id=%s", id)
	return models.FromDomainAppointment(appt), nil
}

// ListByPatient получает историю записей пациента.
// Пациент видит только свою историю.
func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, actorID uuid.UUID, status *string) (*models.AppointmentListResponse, error) {
	s.logger.Info("ListByPatient: fetching appointments for patient=%s, actor=%s", patientID, actorID)

	if patientID != actorID {
		s.logger.Warn("ListByPatient: access denied for actor=%s to patient=%s history", actorID, patientID)
		return nil, ErrAccessDenied
	}

	var domainStatus *domain.AppointmentStatus
	if status != nil {
		parsed, err := models.ToDomainStatus(*status)
		if err != nil {
			s.logger.Warn("ListByPatient: invalid status=%s for patient=%s", *status, patientID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &parsed
	}

	appts, err := s.appointmentRepo.ListByPatient(ctx, patientID, domainStatus)
	if err != nil {
		s.logger.Error("ListByPatient: repository error for patient=%s: %v", patientID, err)
		return nil, fmt.Errorf("%w: ListByPatient - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListByPatient: successfully fetched %d appointments for patient=%s", len(appts), patientID)
	return models.FromDomainAppointmentList(appts), nil
}

// ListByDoctor получает расписание врача с фильтрацией по периоду и статусу.
// Доступно только самому врачу.
func (s *Service) ListByDoctor(ctx context.Context, req *models.GetDoctorAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("ListByDoctor: fetching appointments for doctor=%s, actor=%s", req.DoctorID, req.ActorID)

	if req.DoctorID != req.ActorID {
		s.logger.Warn("ListByDoctor: access denied for actor=%s to doctor=%s schedule", req.ActorID, req.DoctorID)
		return nil, ErrAccessDenied
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("ListByDoctor: invalid filter for doctor=%s: %v", req.DoctorID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	appts, err := s.appointmentRepo.ListByDoctorWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("ListByDoctor: repository error for doctor=%s: %v", req.DoctorID, err)
		return nil, fmt.Errorf("%w: ListByDoctor - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListByDoctor: successfully fetched %d appointments for doctor=%s", len(appts), req.DoctorID)
	return models.FromDomainAppointmentList(appts), nil
}

// UpdateStatus переводит запись в новый статус по таблице переходов:
//
//	requested   -> confirmed, cancelled
//	confirmed   -> in_progress, cancelled, no_show
//	in_progress -> completed, cancelled
//
// Недостижимый статус отклоняется с ErrInvalidTransition.
// Переходы, кроме отмены, доступны только врачу записи.
func (s *Service) UpdateStatus(ctx context.Context, appointmentID uuid.UUID, req *models.UpdateStatusRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("UpdateStatus: updating appointment id=%s to status=%s by actor=%s",
		appointmentID, req.Status, req.ActorID)

	appt, err := s.getAppointment(ctx, "UpdateStatus", appointmentID)
	if err != nil {
		return nil, err
	}

	if err := s.checkActorAccess(appt, req.ActorID); err != nil {
		s.logger.Warn("UpdateStatus: access denied for actor=%s to appointment id=%s", req.ActorID, appointmentID)
		return nil, err
	}

	newStatus, err := models.ToDomainStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for appointment id=%s", req.Status, appointmentID)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	// Переходы, кроме отмены, выполняет только врач записи
	if newStatus != domain.StatusCancelled && req.ActorID != appt.DoctorID {
		s.logger.Warn("UpdateStatus: actor=%s is not the doctor of appointment id=%s", req.ActorID, appointmentID)
		return nil, ErrAccessDenied
	}

	// Повторная отмена - отдельная ошибка, не InvalidTransition
	if newStatus == domain.StatusCancelled && appt.IsCancelled() {
		s.logger.Warn("UpdateStatus: appointment id=%s is already cancelled", appointmentID)
		return nil, ErrAlreadyCancelled
	}

	if !appt.CanTransitionTo(newStatus) {
		s.logger.Warn("UpdateStatus: transition %s -> %s is not allowed for appointment id=%s",
			appt.Status, newStatus, appointmentID)
		return nil, ErrInvalidTransition
	}

	if req.DoctorNotes != nil && len(*req.DoctorNotes) > domain.MaxNotesLength {
		return nil, fmt.Errorf("%w: doctorNotes exceeds %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	if err := s.appointmentRepo.UpdateStatus(ctx, appointmentID, newStatus, req.DoctorNotes); err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("UpdateStatus: appointment id=%s not found during update", appointmentID)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("UpdateStatus: repository error for appointment id=%s: %v", appointmentID, err)
		return nil, fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateStatus: successfully updated appointment id=%s to status=%s", appointmentID, newStatus)

	s.notifier.AppointmentStatusChanged(ctx, appt, newStatus)

	appt.Status = newStatus
	if req.DoctorNotes != nil {
		appt.DoctorNotes = req.DoctorNotes
	}
	return models.FromDomainAppointment(appt), nil
}

// Cancel отменяет запись на приём. Отменить может пациент или врач записи.
// Отменённая запись освобождает интервал; повторная отмена возвращает
// ErrAlreadyCancelled без изменения данных.
func (s *Service) Cancel(ctx context.Context, appointmentID uuid.UUID, req *models.CancelAppointmentRequest) error {
	s.logger.Info("Cancel: cancelling appointment id=%s by actor=%s", appointmentID, req.ActorID)

	appt, err := s.getAppointment(ctx, "Cancel", appointmentID)
	if err != nil {
		return err
	}

	if err := s.checkActorAccess(appt, req.ActorID); err != nil {
		s.logger.Warn("Cancel: access denied for actor=%s to appointment id=%s", req.ActorID, appointmentID)
		return err
	}

	if appt.IsCancelled() {
		s.logger.Warn("Cancel: appointment id=%s is already cancelled", appointmentID)
		return ErrAlreadyCancelled
	}

	if !appt.CanBeCancelled() {
		s.logger.Warn("Cancel: appointment id=%s cannot be cancelled, status=%s", appointmentID, appt.Status)
		return ErrCannotCancel
	}

	reason := ""
	if req.Reason != nil {
		if len(*req.Reason) > domain.MaxCancellationReasonLength {
			return fmt.Errorf("%w: reason exceeds %d characters", ErrInvalidInput, domain.MaxCancellationReasonLength)
		}
		reason = *req.Reason
	}

	if err := s.appointmentRepo.Cancel(ctx, appointmentID, reason); err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("Cancel: appointment id=%s not found during cancellation", appointmentID)
			return ErrAppointmentNotFound
		}
		s.logger.Error("Cancel: repository error for appointment id=%s: %v", appointmentID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Cancel: successfully cancelled appointment id=%s", appointmentID)

	s.notifier.AppointmentCancelled(ctx, appt, req.Reason)

	return nil
}

// Вспомогательные методы

// getAppointment получает запись с маппингом ошибок репозитория
func (s *Service) getAppointment(ctx context.Context, op string, id uuid.UUID) (*domain.Appointment, error) {
	appt, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("%s: appointment id=%s not found", op, id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("%s: repository error for appointment id=%s: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return appt, nil
}

// checkActorAccess проверяет, что актор - пациент или врач этой записи
func (s *Service) checkActorAccess(appt *domain.Appointment, actorID uuid.UUID) error {
	if appt.PatientID == actorID || appt.DoctorID == actorID {
		return nil
	}
	return ErrAccessDenied
}
