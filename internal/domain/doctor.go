package domain

import (
	"time"

	"github.com/google/uuid"
)

// Doctor represents a practicing dentist
type Doctor struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	FullName        string
	Specializations []string

	// Rating summary is informational only and is never consulted by booking logic
	Rating      float64
	ReviewCount int

	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Service represents a treatment type offered by exactly one doctor
type Service struct {
	ID              uuid.UUID
	DoctorID        uuid.UUID
	Title           string
	Description     *string
	DurationMinutes int
	Price           float64

	// IsActive закрывает услугу для новых записей,
	// но не влияет на уже созданные записи
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// BelongsTo returns true if the service is offered by the given doctor
func (s *Service) BelongsTo(doctorID uuid.UUID) bool {
	return s.DoctorID == doctorID
}

// HasValidDuration returns true if the duration is within business bounds
func (s *Service) HasValidDuration() bool {
	return s.DurationMinutes >= MinServiceDurationMinutes && s.DurationMinutes <= MaxServiceDurationMinutes
}
