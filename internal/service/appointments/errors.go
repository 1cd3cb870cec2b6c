package appointments

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись на приём не найдена
	ErrAppointmentNotFound = errors.New("appointment not found")

	// ErrAccessDenied возвращается, когда актор не является ни пациентом,
	// ни врачом этой записи
	ErrAccessDenied = errors.New("access denied")

	// ErrAlreadyCancelled возвращается при повторной отмене записи.
	// Повторная отмена - no-op ошибка, а не сбой.
	ErrAlreadyCancelled = errors.New("appointment is already cancelled")

	// ErrCannotCancel возвращается, когда запись в терминальном статусе,
	// отличном от cancelled (completed, no_show)
	ErrCannotCancel = errors.New("appointment cannot be cancelled")

	// ErrInvalidTransition возвращается, когда новый статус недостижим
	// из текущего по таблице переходов
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("appointments service: internal error")
)
