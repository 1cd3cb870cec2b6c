package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionTo(t *testing.T) {
	tests := []struct {
		name    string
		from    AppointmentStatus
		to      AppointmentStatus
		allowed bool
	}{
		{"requested to confirmed", StatusRequested, StatusConfirmed, true},
		{"requested to cancelled", StatusRequested, StatusCancelled, true},
		{"requested to in_progress", StatusRequested, StatusInProgress, false},
		{"requested to completed", StatusRequested, StatusCompleted, false},
		{"requested to no_show", StatusRequested, StatusNoShow, false},
		{"confirmed to in_progress", StatusConfirmed, StatusInProgress, true},
		{"confirmed to cancelled", StatusConfirmed, StatusCancelled, true},
		{"confirmed to no_show", StatusConfirmed, StatusNoShow, true},
		{"confirmed to completed", StatusConfirmed, StatusCompleted, false},
		{"in_progress to completed", StatusInProgress, StatusCompleted, true},
		{"in_progress to cancelled", StatusInProgress, StatusCancelled, true},
		{"in_progress to no_show", StatusInProgress, StatusNoShow, false},
		{"completed is terminal", StatusCompleted, StatusCancelled, false},
		{"cancelled is terminal", StatusCancelled, StatusRequested, false},
		{"no_show is terminal", StatusNoShow, StatusConfirmed, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appt := &Appointment{Status: tt.from}
			assert.Equal(t, tt.allowed, appt.CanTransitionTo(tt.to))
		})
	}
}

func TestOverlaps(t *testing.T) {
	base := time.Date(2025, 10, 15, 9, 0, 0, 0, time.UTC)
	appt := &Appointment{
		StartTime: base,
		EndTime:   base.Add(30 * time.Minute), // 09:00 - 09:30
	}

	tests := []struct {
		name     string
		start    time.Time
		end      time.Time
		overlaps bool
	}{
		{"identical interval", base, base.Add(30 * time.Minute), true},
		{"starts inside", base.Add(15 * time.Minute), base.Add(45 * time.Minute), true},
		{"ends inside", base.Add(-15 * time.Minute), base.Add(15 * time.Minute), true},
		{"fully contains", base.Add(-15 * time.Minute), base.Add(45 * time.Minute), true},
		{"fully inside", base.Add(5 * time.Minute), base.Add(10 * time.Minute), true},
		{"adjacent after", base.Add(30 * time.Minute), base.Add(60 * time.Minute), false},
		{"adjacent before", base.Add(-30 * time.Minute), base, false},
		{"disjoint after", base.Add(60 * time.Minute), base.Add(90 * time.Minute), false},
		{"disjoint before", base.Add(-60 * time.Minute), base.Add(-30 * time.Minute), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.overlaps, appt.Overlaps(tt.start, tt.end))
		})
	}
}

func TestOccupiesSlot(t *testing.T) {
	// Интервал освобождает только отмена
	for _, status := range AllStatuses {
		appt := &Appointment{Status: status}
		if status == StatusCancelled {
			assert.False(t, appt.OccupiesSlot(), "status=%s", status)
		} else {
			assert.True(t, appt.OccupiesSlot(), "status=%s", status)
		}
	}
}

func TestCanBeCancelled(t *testing.T) {
	assert.True(t, (&Appointment{Status: StatusRequested}).CanBeCancelled())
	assert.True(t, (&Appointment{Status: StatusConfirmed}).CanBeCancelled())
	assert.True(t, (&Appointment{Status: StatusInProgress}).CanBeCancelled())
	assert.False(t, (&Appointment{Status: StatusCompleted}).CanBeCancelled())
	assert.False(t, (&Appointment{Status: StatusCancelled}).CanBeCancelled())
	assert.False(t, (&Appointment{Status: StatusNoShow}).CanBeCancelled())
}

func TestParseStatus(t *testing.T) {
	status, ok := ParseStatus("confirmed")
	assert.True(t, ok)
	assert.Equal(t, StatusConfirmed, status)

	_, ok = ParseStatus("unknown")
	assert.False(t, ok)

	_, ok = ParseStatus("")
	assert.False(t, ok)
}
