package create_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dentistqueue/DQ-BookingService/internal/domain"
	appointmentRepo "github.com/dentistqueue/DQ-BookingService/internal/infra/storage/appointment"
	doctorRepo "github.com/dentistqueue/DQ-BookingService/internal/infra/storage/doctor"
)

// UseCase use case создания записи на приём
type UseCase struct {
	appointmentRepo AppointmentRepository
	doctorRepo      DoctorRepository
	notifier        Notifier
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	doctorRepo DoctorRepository,
	notifier Notifier,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		doctorRepo:      doctorRepo,
		notifier:        notifier,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case создания записи на приём.
// Проверка пересечений и вставка выполняются в сериализуемой транзакции:
// из двух конкурентных запросов на пересекающиеся интервалы одного врача
// успешным будет ровно один.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateAppointment: patient=%s, doctor=%s, service=%s, start=%s",
		req.PatientID, req.DoctorID, req.ServiceID, req.StartTime.Format(time.RFC3339))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время и проверяем, что приём не в прошлом
	now := uc.timeProvider.Now()
	if err := validateStartTime(req.StartTime, now); err != nil {
		uc.logger.Warn("CreateAppointment: start time %s is in the past", req.StartTime.Format(time.RFC3339))
		return nil, err
	}

	// 3. Получаем врача
	doctor, err := uc.doctorRepo.GetByID(ctx, req.DoctorID)
	if err != nil {
		if errors.Is(err, doctorRepo.ErrDoctorNotFound) {
			uc.logger.Warn("CreateAppointment: doctor id=%s not found", req.DoctorID)
			return nil, ErrDoctorNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get doctor id=%s: %v", req.DoctorID, err)
		return nil, fmt.Errorf("%w: failed to get doctor: %v", ErrInternal, err)
	}

	if !doctor.IsActive {
		uc.logger.Warn("CreateAppointment: doctor id=%s is not active", req.DoctorID)
		return nil, ErrDoctorNotFound
	}

	// 4. Получаем услугу. Длительность и цена читаются на момент записи,
	// а не кэшируются.
	service, err := uc.doctorRepo.GetService(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, doctorRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateAppointment: service id=%s not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get service id=%s: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	// 5. Проверяем, что услуга принадлежит врачу и открыта для записи
	if err := validateService(service, req.DoctorID); err != nil {
		uc.logger.Warn("CreateAppointment: service id=%s rejected for doctor id=%s: %v",
			req.ServiceID, req.DoctorID, err)
		return nil, err
	}

	// 6. Вычисляем конец приёма
	endTime := req.StartTime.Add(time.Duration(service.DurationMinutes) * time.Minute)

	// Переменная для хранения результата
	var result *domain.Appointment

	// 7. Проверка пересечений + вставка атомарно, в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 7.1. Получаем пересекающиеся записи врача с блокировкой (FOR UPDATE)
		overlapping, err := uc.appointmentRepo.ListOverlapping(txCtx, req.DoctorID, req.StartTime, endTime)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to list overlapping appointments: %v", err)
			return fmt.Errorf("%w: failed to list overlapping appointments: %v", ErrInternal, err)
		}

		// 7.2. Проверяем доступность интервала
		if hasOverlap(overlapping, req.StartTime, endTime) {
			uc.logger.Warn("CreateAppointment: slot [%s, %s) is taken for doctor id=%s",
				req.StartTime.Format(time.RFC3339), endTime.Format(time.RFC3339), req.DoctorID)
			return ErrSlotConflict
		}

		// 7.3. Создаем запись с денормализацией данных услуги
		appt := &domain.Appointment{
			PatientID:    req.PatientID,
			DoctorID:     req.DoctorID,
			ServiceID:    req.ServiceID,
			StartTime:    req.StartTime,
			EndTime:      endTime,
			Status:       domain.StatusRequested,
			ServiceTitle: service.Title,
			ServicePrice: service.Price,
			PatientNotes: req.PatientNotes,
		}

		created, err := uc.appointmentRepo.Create(txCtx, appt)
		if err != nil {
			// Exclusion constraint в БД - страховка на случай гонки
			if errors.Is(err, appointmentRepo.ErrSlotConflict) {
				uc.logger.Warn("CreateAppointment: slot conflict detected by store for doctor id=%s", req.DoctorID)
				return ErrSlotConflict
			}
			uc.logger.Error("CreateAppointment: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateAppointment: successfully created appointment id=%s", result.ID)

	// 8. Уведомление best-effort: ошибка отправки не влияет на результат
	uc.notifier.AppointmentCreated(ctx, result)

	// Конвертируем в response
	return &Response{
		ID:           result.ID,
		PatientID:    result.PatientID,
		DoctorID:     result.DoctorID,
		ServiceID:    result.ServiceID,
		StartTime:    result.StartTime,
		EndTime:      result.EndTime,
		Status:       string(result.Status),
		ServiceTitle: result.ServiceTitle,
		ServicePrice: result.ServicePrice,
		PatientNotes: result.PatientNotes,
		CreatedAt:    result.CreatedAt,
		UpdatedAt:    result.UpdatedAt,
	}, nil
}
