package create_appointment

import "errors"

var (
	// ErrDoctorNotFound возвращается, когда врач не найден или неактивен
	ErrDoctorNotFound = errors.New("create_appointment: doctor not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена, не принадлежит
	// врачу или закрыта для новых записей
	ErrServiceNotFound = errors.New("create_appointment: service not found")

	// ErrSlotConflict возвращается, когда интервал пересекается с существующей
	// неотменённой записью врача
	ErrSlotConflict = errors.New("create_appointment: slot conflict")

	// ErrStartTimeInPast возвращается, когда время начала приёма уже прошло
	ErrStartTimeInPast = errors.New("create_appointment: start time is in the past")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_appointment: internal error")
)
