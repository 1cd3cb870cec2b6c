package create_appointment

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dentistqueue/DQ-BookingService/internal/domain"
	doctorRepo "github.com/dentistqueue/DQ-BookingService/internal/infra/storage/doctor"
)

// --- Фейки для тестирования ---

// fakeAppointmentRepo in-memory репозиторий записей
type fakeAppointmentRepo struct {
	mu           sync.Mutex
	appointments []*domain.Appointment
	createErr    error
}

func (r *fakeAppointmentRepo) Create(_ context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.createErr != nil {
		return nil, r.createErr
	}

	created := *appt
	created.ID = uuid.New()
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	r.appointments = append(r.appointments, &created)

	result := created
	return &result, nil
}

func (r *fakeAppointmentRepo) ListOverlapping(_ context.Context, doctorID uuid.UUID, start, end time.Time) ([]*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []*domain.Appointment
	for _, appt := range r.appointments {
		if appt.DoctorID == doctorID && appt.OccupiesSlot() && appt.Overlaps(start, end) {
			copied := *appt
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (r *fakeAppointmentRepo) cancelAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, appt := range r.appointments {
		appt.Status = domain.StatusCancelled
	}
}

// fakeDoctorRepo репозиторий врачей на map'ах
type fakeDoctorRepo struct {
	doctors  map[uuid.UUID]*domain.Doctor
	services map[uuid.UUID]*domain.Service
}

func (r *fakeDoctorRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Doctor, error) {
	doctor, ok := r.doctors[id]
	if !ok {
		return nil, doctorRepo.ErrDoctorNotFound
	}
	copied := *doctor
	return &copied, nil
}

func (r *fakeDoctorRepo) GetService(_ context.Context, serviceID uuid.UUID) (*domain.Service, error) {
	service, ok := r.services[serviceID]
	if !ok {
		return nil, doctorRepo.ErrServiceNotFound
	}
	copied := *service
	return &copied, nil
}

// fakeTxManager сериализует транзакции мьютексом, имитируя SERIALIZABLE
type fakeTxManager struct {
	mu sync.Mutex
}

func (m *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(ctx)
}

// fakeTimeProvider возвращает фиксированное время
type fakeTimeProvider struct {
	now time.Time
}

func (p *fakeTimeProvider) Now() time.Time {
	return p.now
}

// fakeNotifier считает отправленные уведомления
type fakeNotifier struct {
	mu      sync.Mutex
	created int
}

func (n *fakeNotifier) AppointmentCreated(_ context.Context, _ *domain.Appointment) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.created++
}

func (n *fakeNotifier) createdCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.created
}

// nopLogger логгер-заглушка
type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// --- Окружение теста ---

type testEnv struct {
	uc              *UseCase
	appointmentRepo *fakeAppointmentRepo
	doctorRepo      *fakeDoctorRepo
	notifier        *fakeNotifier
	now             time.Time
	doctorID        uuid.UUID
	serviceID       uuid.UUID
	patientID       uuid.UUID
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	now := time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)
	doctorID := uuid.New()
	serviceID := uuid.New()

	env := &testEnv{
		appointmentRepo: &fakeAppointmentRepo{},
		doctorRepo: &fakeDoctorRepo{
			doctors: map[uuid.UUID]*domain.Doctor{
				doctorID: {
					ID:       doctorID,
					UserID:   uuid.New(),
					FullName: "Иванов Иван Иванович",
					IsActive: true,
				},
			},
			services: map[uuid.UUID]*domain.Service{
				serviceID: {
					ID:              serviceID,
					DoctorID:        doctorID,
					Title:           "Профессиональная чистка",
					DurationMinutes: 30,
					Price:           3500,
					IsActive:        true,
				},
			},
		},
		notifier:  &fakeNotifier{},
		now:       now,
		doctorID:  doctorID,
		serviceID: serviceID,
		patientID: uuid.New(),
	}

	env.uc = NewUseCase(
		env.appointmentRepo,
		env.doctorRepo,
		env.notifier,
		&fakeTxManager{},
		nopLogger{},
	)
	env.uc.timeProvider = &fakeTimeProvider{now: now}

	return env
}

func (env *testEnv) request(start time.Time) *Request {
	return &Request{
		PatientID: env.patientID,
		DoctorID:  env.doctorID,
		ServiceID: env.serviceID,
		StartTime: start,
	}
}

// --- Тесты ---

func TestExecute_Success(t *testing.T) {
	env := newTestEnv(t)
	start := env.now.Add(24 * time.Hour)

	resp, err := env.uc.Execute(context.Background(), env.request(start))
	require.NoError(t, err)
	require.NotNil(t, resp)

	assert.NotEqual(t, uuid.Nil, resp.ID)
	assert.Equal(t, env.patientID, resp.PatientID)
	assert.Equal(t, env.doctorID, resp.DoctorID)
	assert.Equal(t, start, resp.StartTime)
	assert.Equal(t, start.Add(30*time.Minute), resp.EndTime)
	assert.Equal(t, string(domain.StatusRequested), resp.Status)
	assert.Equal(t, "Профессиональная чистка", resp.ServiceTitle)
	assert.Equal(t, 3500.0, resp.ServicePrice)
	assert.Equal(t, 1, env.notifier.createdCount())
}

func TestExecute_SlotConflict(t *testing.T) {
	env := newTestEnv(t)
	start := env.now.Add(24 * time.Hour)

	_, err := env.uc.Execute(context.Background(), env.request(start))
	require.NoError(t, err)

	// Тот же интервал
	_, err = env.uc.Execute(context.Background(), env.request(start))
	assert.ErrorIs(t, err, ErrSlotConflict)

	// Частичное пересечение (+15 минут)
	_, err = env.uc.Execute(context.Background(), env.request(start.Add(15*time.Minute)))
	assert.ErrorIs(t, err, ErrSlotConflict)

	// Частичное пересечение (-15 минут)
	_, err = env.uc.Execute(context.Background(), env.request(start.Add(-15*time.Minute)))
	assert.ErrorIs(t, err, ErrSlotConflict)
}

func TestExecute_AdjacentSlotsDoNotConflict(t *testing.T) {
	env := newTestEnv(t)
	start := env.now.Add(24 * time.Hour)

	// [start, start+30)
	_, err := env.uc.Execute(context.Background(), env.request(start))
	require.NoError(t, err)

	// [start+30, start+60) - граница полуинтервалов не пересекается
	_, err = env.uc.Execute(context.Background(), env.request(start.Add(30*time.Minute)))
	require.NoError(t, err)

	// [start-30, start) - смежный слот до
	_, err = env.uc.Execute(context.Background(), env.request(start.Add(-30*time.Minute)))
	require.NoError(t, err)
}

func TestExecute_CancelledAppointmentFreesSlot(t *testing.T) {
	env := newTestEnv(t)
	start := env.now.Add(24 * time.Hour)

	_, err := env.uc.Execute(context.Background(), env.request(start))
	require.NoError(t, err)

	_, err = env.uc.Execute(context.Background(), env.request(start))
	require.ErrorIs(t, err, ErrSlotConflict)

	// После отмены интервал снова доступен
	env.appointmentRepo.cancelAll()

	_, err = env.uc.Execute(context.Background(), env.request(start))
	assert.NoError(t, err)
}

func TestExecute_DoctorNotFound(t *testing.T) {
	env := newTestEnv(t)
	req := env.request(env.now.Add(24 * time.Hour))
	req.DoctorID = uuid.New()

	_, err := env.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrDoctorNotFound)
}

func TestExecute_InactiveDoctor(t *testing.T) {
	env := newTestEnv(t)
	env.doctorRepo.doctors[env.doctorID].IsActive = false

	_, err := env.uc.Execute(context.Background(), env.request(env.now.Add(24*time.Hour)))
	assert.ErrorIs(t, err, ErrDoctorNotFound)
}

func TestExecute_ServiceNotFound(t *testing.T) {
	env := newTestEnv(t)
	req := env.request(env.now.Add(24 * time.Hour))
	req.ServiceID = uuid.New()

	_, err := env.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_InactiveService(t *testing.T) {
	env := newTestEnv(t)
	env.doctorRepo.services[env.serviceID].IsActive = false

	_, err := env.uc.Execute(context.Background(), env.request(env.now.Add(24*time.Hour)))
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_ServiceBelongsToAnotherDoctor(t *testing.T) {
	env := newTestEnv(t)
	env.doctorRepo.services[env.serviceID].DoctorID = uuid.New()

	_, err := env.uc.Execute(context.Background(), env.request(env.now.Add(24*time.Hour)))
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_StartTimeInPast(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.uc.Execute(context.Background(), env.request(env.now.Add(-time.Hour)))
	assert.ErrorIs(t, err, ErrStartTimeInPast)
	assert.Equal(t, 0, env.notifier.createdCount())
}

func TestExecute_InvalidInput(t *testing.T) {
	env := newTestEnv(t)
	start := env.now.Add(24 * time.Hour)

	req := env.request(start)
	req.PatientID = uuid.Nil
	_, err := env.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)

	req = env.request(start)
	req.DoctorID = uuid.Nil
	_, err = env.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)

	req = env.request(start)
	req.ServiceID = uuid.Nil
	_, err = env.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)

	tooLong := make([]byte, domain.MaxNotesLength+1)
	for i := range tooLong {
		tooLong[i] = 'a'
	}
	notes := string(tooLong)
	req = env.request(start)
	req.PatientNotes = &notes
	_, err = env.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

// Из N конкурентных запросов на один и тот же интервал одного врача
// успешным должен быть ровно один
func TestExecute_ConcurrentSameSlot(t *testing.T) {
	env := newTestEnv(t)
	start := env.now.Add(24 * time.Hour)

	const workers = 20

	var wg sync.WaitGroup
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			_, errs[idx] = env.uc.Execute(context.Background(), env.request(start))
		}(i)
	}
	wg.Wait()

	successes := 0
	conflicts := 0
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		default:
			require.ErrorIs(t, err, ErrSlotConflict)
			conflicts++
		}
	}

	assert.Equal(t, 1, successes)
	assert.Equal(t, workers-1, conflicts)
	assert.Equal(t, 1, env.notifier.createdCount())
}
