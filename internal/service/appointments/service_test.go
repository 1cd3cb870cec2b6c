package appointments

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dentistqueue/DQ-BookingService/internal/domain"
	appointmentRepo "github.com/dentistqueue/DQ-BookingService/internal/infra/storage/appointment"
	"github.com/dentistqueue/DQ-BookingService/internal/service/appointments/models"
	"github.com/dentistqueue/DQ-BookingService/pkg/ptr"
)

// --- Фейки ---

// fakeRepo in-memory репозиторий записей
type fakeRepo struct {
	appointments map[uuid.UUID]*domain.Appointment
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{appointments: make(map[uuid.UUID]*domain.Appointment)}
}

func (r *fakeRepo) add(appt *domain.Appointment) *domain.Appointment {
	if appt.ID == uuid.Nil {
		appt.ID = uuid.New()
	}
	r.appointments[appt.ID] = appt
	return appt
}

func (r *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Appointment, error) {
	appt, ok := r.appointments[id]
	if !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	copied := *appt
	return &copied, nil
}

func (r *fakeRepo) ListByPatient(_ context.Context, patientID uuid.UUID, status *domain.AppointmentStatus) ([]*domain.Appointment, error) {
	var result []*domain.Appointment
	for _, appt := range r.appointments {
		if appt.PatientID != patientID {
			continue
		}
		if status != nil && appt.Status != *status {
			continue
		}
		copied := *appt
		result = append(result, &copied)
	}
	return result, nil
}

func (r *fakeRepo) ListByDoctorWithFilter(_ context.Context, filter domain.DoctorAppointmentsFilter) ([]*domain.Appointment, error) {
	var result []*domain.Appointment
	for _, appt := range r.appointments {
		if appt.DoctorID != filter.DoctorID {
			continue
		}
		if !filter.IncludeCancelled && appt.IsCancelled() {
			continue
		}
		if filter.Status != nil && appt.Status != *filter.Status {
			continue
		}
		if filter.FromDate != nil && appt.StartTime.Before(*filter.FromDate) {
			continue
		}
		if filter.ToDate != nil && !appt.StartTime.Before(*filter.ToDate) {
			continue
		}
		copied := *appt
		result = append(result, &copied)
	}
	return result, nil
}

func (r *fakeRepo) UpdateStatus(_ context.Context, id uuid.UUID, status domain.AppointmentStatus, doctorNotes *string) error {
	appt, ok := r.appointments[id]
	if !ok {
		return appointmentRepo.ErrAppointmentNotFound
	}
	appt.Status = status
	if doctorNotes != nil {
		appt.DoctorNotes = doctorNotes
	}
	return nil
}

func (r *fakeRepo) Cancel(_ context.Context, id uuid.UUID, reason string) error {
	appt, ok := r.appointments[id]
	if !ok {
		return appointmentRepo.ErrAppointmentNotFound
	}
	now := time.Now()
	appt.Status = domain.StatusCancelled
	appt.CancellationReason = &reason
	appt.CancelledAt = &now
	return nil
}

// fakeNotifier считает уведомления
type fakeNotifier struct {
	cancelled     int
	statusChanged int
}

func (n *fakeNotifier) AppointmentCancelled(_ context.Context, _ *domain.Appointment, _ *string) {
	n.cancelled++
}

func (n *fakeNotifier) AppointmentStatusChanged(_ context.Context, _ *domain.Appointment, _ domain.AppointmentStatus) {
	n.statusChanged++
}

// nopLogger логгер-заглушка
type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// --- Окружение ---

type testEnv struct {
	svc       *Service
	repo      *fakeRepo
	notifier  *fakeNotifier
	patientID uuid.UUID
	doctorID  uuid.UUID
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		repo:      newFakeRepo(),
		notifier:  &fakeNotifier{},
		patientID: uuid.New(),
		doctorID:  uuid.New(),
	}
	env.svc = NewService(env.repo, env.notifier, nopLogger{})
	return env
}

func (env *testEnv) addAppointment(status domain.AppointmentStatus) *domain.Appointment {
	start := time.Date(2025, 10, 15, 9, 0, 0, 0, time.UTC)
	return env.repo.add(&domain.Appointment{
		PatientID:    env.patientID,
		DoctorID:     env.doctorID,
		ServiceID:    uuid.New(),
		StartTime:    start,
		EndTime:      start.Add(30 * time.Minute),
		Status:       status,
		ServiceTitle: "Осмотр",
		ServicePrice: 1500,
	})
}

// --- GetByID ---

func TestGetByID(t *testing.T) {
	env := newTestEnv(t)
	appt := env.addAppointment(domain.StatusRequested)

	// Пациент видит свою запись
	resp, err := env.svc.GetByID(context.Background(), appt.ID, env.patientID)
	require.NoError(t, err)
	assert.Equal(t, appt.ID, resp.ID)

	// Врач тоже
	_, err = env.svc.GetByID(context.Background(), appt.ID, env.doctorID)
	require.NoError(t, err)

	// Посторонний - нет
	_, err = env.svc.GetByID(context.Background(), appt.ID, uuid.New())
	assert.ErrorIs(t, err, ErrAccessDenied)

	// Несуществующая запись
	_, err = env.svc.GetByID(context.Background(), uuid.New(), env.patientID)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

// --- UpdateStatus ---

func TestUpdateStatus_ValidTransitions(t *testing.T) {
	env := newTestEnv(t)
	appt := env.addAppointment(domain.StatusRequested)

	// requested -> confirmed
	resp, err := env.svc.UpdateStatus(context.Background(), appt.ID, &models.UpdateStatusRequest{
		ActorID: env.doctorID,
		Status:  "confirmed",
	})
	require.NoError(t, err)
	assert.Equal(t, "confirmed", resp.Status)

	// confirmed -> in_progress
	resp, err = env.svc.UpdateStatus(context.Background(), appt.ID, &models.UpdateStatusRequest{
		ActorID: env.doctorID,
		Status:  "in_progress",
	})
	require.NoError(t, err)
	assert.Equal(t, "in_progress", resp.Status)

	// in_progress -> completed, с заметками врача
	resp, err = env.svc.UpdateStatus(context.Background(), appt.ID, &models.UpdateStatusRequest{
		ActorID:     env.doctorID,
		Status:      "completed",
		DoctorNotes: ptr.Ptr("Лечение завершено"),
	})
	require.NoError(t, err)
	assert.Equal(t, "completed", resp.Status)
	require.NotNil(t, resp.DoctorNotes)
	assert.Equal(t, "Лечение завершено", *resp.DoctorNotes)

	assert.Equal(t, 3, env.notifier.statusChanged)
}

func TestUpdateStatus_InvalidTransitions(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name   string
		from   domain.AppointmentStatus
		to     string
	}{
		{"requested to completed", domain.StatusRequested, "completed"},
		{"requested to in_progress", domain.StatusRequested, "in_progress"},
		{"requested to no_show", domain.StatusRequested, "no_show"},
		{"confirmed to completed", domain.StatusConfirmed, "completed"},
		{"completed to confirmed", domain.StatusCompleted, "confirmed"},
		{"no_show to in_progress", domain.StatusNoShow, "in_progress"},
		{"cancelled to confirmed", domain.StatusCancelled, "confirmed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appt := env.addAppointment(tt.from)
			_, err := env.svc.UpdateStatus(context.Background(), appt.ID, &models.UpdateStatusRequest{
				ActorID: env.doctorID,
				Status:  tt.to,
			})
			assert.ErrorIs(t, err, ErrInvalidTransition)
		})
	}

	assert.Equal(t, 0, env.notifier.statusChanged)
}

func TestUpdateStatus_CancelledTwiceViaStatus(t *testing.T) {
	env := newTestEnv(t)
	appt := env.addAppointment(domain.StatusCancelled)

	_, err := env.svc.UpdateStatus(context.Background(), appt.ID, &models.UpdateStatusRequest{
		ActorID: env.doctorID,
		Status:  "cancelled",
	})
	assert.ErrorIs(t, err, ErrAlreadyCancelled)
}

func TestUpdateStatus_UnknownStatus(t *testing.T) {
	env := newTestEnv(t)
	appt := env.addAppointment(domain.StatusRequested)

	_, err := env.svc.UpdateStatus(context.Background(), appt.ID, &models.UpdateStatusRequest{
		ActorID: env.doctorID,
		Status:  "postponed",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateStatus_AccessDenied(t *testing.T) {
	env := newTestEnv(t)
	appt := env.addAppointment(domain.StatusRequested)

	_, err := env.svc.UpdateStatus(context.Background(), appt.ID, &models.UpdateStatusRequest{
		ActorID: uuid.New(),
		Status:  "confirmed",
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestUpdateStatus_PatientCannotConfirm(t *testing.T) {
	env := newTestEnv(t)
	appt := env.addAppointment(domain.StatusRequested)

	// Подтверждает только врач
	_, err := env.svc.UpdateStatus(context.Background(), appt.ID, &models.UpdateStatusRequest{
		ActorID: env.patientID,
		Status:  "confirmed",
	})
	assert.ErrorIs(t, err, ErrAccessDenied)

	// Но отменить через смену статуса пациент может
	resp, err := env.svc.UpdateStatus(context.Background(), appt.ID, &models.UpdateStatusRequest{
		ActorID: env.patientID,
		Status:  "cancelled",
	})
	require.NoError(t, err)
	assert.Equal(t, "cancelled", resp.Status)
}

// --- Cancel ---

func TestCancel(t *testing.T) {
	env := newTestEnv(t)
	appt := env.addAppointment(domain.StatusConfirmed)

	err := env.svc.Cancel(context.Background(), appt.ID, &models.CancelAppointmentRequest{
		ActorID: env.patientID,
		Reason:  ptr.Ptr("Не смогу прийти"),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, env.notifier.cancelled)

	stored := env.repo.appointments[appt.ID]
	assert.Equal(t, domain.StatusCancelled, stored.Status)
	require.NotNil(t, stored.CancellationReason)
	assert.Equal(t, "Не смогу прийти", *stored.CancellationReason)
	assert.NotNil(t, stored.CancelledAt)
}

func TestCancel_AlreadyCancelled(t *testing.T) {
	env := newTestEnv(t)
	appt := env.addAppointment(domain.StatusConfirmed)

	err := env.svc.Cancel(context.Background(), appt.ID, &models.CancelAppointmentRequest{ActorID: env.patientID})
	require.NoError(t, err)

	err = env.svc.Cancel(context.Background(), appt.ID, &models.CancelAppointmentRequest{ActorID: env.patientID})
	assert.ErrorIs(t, err, ErrAlreadyCancelled)
	assert.Equal(t, 1, env.notifier.cancelled)
}

func TestCancel_TerminalStatus(t *testing.T) {
	env := newTestEnv(t)

	for _, status := range []domain.AppointmentStatus{domain.StatusCompleted, domain.StatusNoShow} {
		appt := env.addAppointment(status)
		err := env.svc.Cancel(context.Background(), appt.ID, &models.CancelAppointmentRequest{ActorID: env.patientID})
		assert.ErrorIs(t, err, ErrCannotCancel, "status=%s", status)
	}
}

func TestCancel_AccessDenied(t *testing.T) {
	env := newTestEnv(t)
	appt := env.addAppointment(domain.StatusRequested)

	err := env.svc.Cancel(context.Background(), appt.ID, &models.CancelAppointmentRequest{ActorID: uuid.New()})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

// --- Списки ---

func TestListByPatient(t *testing.T) {
	env := newTestEnv(t)
	env.addAppointment(domain.StatusRequested)
	env.addAppointment(domain.StatusCancelled)

	// История пациента включает отменённые записи
	resp, err := env.svc.ListByPatient(context.Background(), env.patientID, env.patientID, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Total)

	// Фильтр по статусу
	status := "cancelled"
	resp, err = env.svc.ListByPatient(context.Background(), env.patientID, env.patientID, &status)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Total)

	// Некорректный статус
	bad := "postponed"
	_, err = env.svc.ListByPatient(context.Background(), env.patientID, env.patientID, &bad)
	assert.ErrorIs(t, err, ErrInvalidInput)

	// Чужая история недоступна
	_, err = env.svc.ListByPatient(context.Background(), env.patientID, uuid.New(), nil)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestListByDoctor(t *testing.T) {
	env := newTestEnv(t)
	env.addAppointment(domain.StatusConfirmed)
	env.addAppointment(domain.StatusCancelled)

	// По умолчанию отменённые скрыты
	resp, err := env.svc.ListByDoctor(context.Background(), &models.GetDoctorAppointmentsRequest{
		DoctorID: env.doctorID,
		ActorID:  env.doctorID,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Total)

	// include_cancelled=true показывает все
	resp, err = env.svc.ListByDoctor(context.Background(), &models.GetDoctorAppointmentsRequest{
		DoctorID:         env.doctorID,
		ActorID:          env.doctorID,
		IncludeCancelled: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Total)

	// Период, не содержащий записей
	from := time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 11, 2, 0, 0, 0, 0, time.UTC)
	resp, err = env.svc.ListByDoctor(context.Background(), &models.GetDoctorAppointmentsRequest{
		DoctorID: env.doctorID,
		ActorID:  env.doctorID,
		FromDate: &from,
		ToDate:   &to,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Total)

	// Чужое расписание недоступно
	_, err = env.svc.ListByDoctor(context.Background(), &models.GetDoctorAppointmentsRequest{
		DoctorID: env.doctorID,
		ActorID:  uuid.New(),
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}
