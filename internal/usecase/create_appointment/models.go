package create_appointment

import (
	"time"

	"github.com/google/uuid"
)

// Request модель запроса на создание записи на приём
type Request struct {
	PatientID    uuid.UUID // ID пациента (из заголовка аутентификации)
	DoctorID     uuid.UUID // ID врача
	ServiceID    uuid.UUID // ID услуги
	StartTime    time.Time // Время начала приёма
	PatientNotes *string   // Заметки пациента (опционально)
}

// Response модель ответа с созданной записью
type Response struct {
	ID        uuid.UUID // ID созданной записи
	PatientID uuid.UUID // ID пациента
	DoctorID  uuid.UUID // ID врача
	ServiceID uuid.UUID // ID услуги
	StartTime time.Time // Время начала
	EndTime   time.Time // Время окончания (StartTime + длительность услуги)
	Status    string    // Статус записи

	// Денормализованные данные услуги
	ServiceTitle string  // Название услуги
	ServicePrice float64 // Цена услуги на момент записи

	PatientNotes *string // Заметки пациента

	CreatedAt time.Time // Время создания
	UpdatedAt time.Time // Время обновления
}
