package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dentistqueue/DQ-BookingService/internal/domain"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент сервиса уведомлений.
// Уведомления best-effort: ошибка отправки логируется и никогда не влияет
// на результат операции с записью.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента сервиса уведомлений
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// send отправляет событие в сервис уведомлений
func (c *Client) send(ctx context.Context, event *Event) error {
	url := fmt.Sprintf("%s/internal/notifications", c.baseURL)

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal event: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(respBody))
	}

	return nil
}

// notify отправляет событие с деградацией: любая ошибка только логируется
func (c *Client) notify(ctx context.Context, event *Event) {
	if err := c.send(ctx, event); err != nil {
		c.log.Error("Notifier unavailable, event %s for appointment id=%s dropped: %v",
			event.Type, event.AppointmentID, err)
		return
	}
	c.log.Info("Notifier: sent event %s for appointment id=%s", event.Type, event.AppointmentID)
}

// AppointmentCreated уведомляет о созданной записи
func (c *Client) AppointmentCreated(ctx context.Context, appt *domain.Appointment) {
	c.notify(ctx, &Event{
		Type:          EventAppointmentCreated,
		AppointmentID: appt.ID,
		PatientID:     appt.PatientID,
		DoctorID:      appt.DoctorID,
		StartTime:     appt.StartTime,
		Status:        string(appt.Status),
	})
}

// AppointmentCancelled уведомляет об отменённой записи
func (c *Client) AppointmentCancelled(ctx context.Context, appt *domain.Appointment, reason *string) {
	c.notify(ctx, &Event{
		Type:          EventAppointmentCancelled,
		AppointmentID: appt.ID,
		PatientID:     appt.PatientID,
		DoctorID:      appt.DoctorID,
		StartTime:     appt.StartTime,
		Status:        string(domain.StatusCancelled),
		Reason:        reason,
	})
}

// AppointmentStatusChanged уведомляет о смене статуса записи
func (c *Client) AppointmentStatusChanged(ctx context.Context, appt *domain.Appointment, newStatus domain.AppointmentStatus) {
	c.notify(ctx, &Event{
		Type:          EventAppointmentStatusChanged,
		AppointmentID: appt.ID,
		PatientID:     appt.PatientID,
		DoctorID:      appt.DoctorID,
		StartTime:     appt.StartTime,
		Status:        string(newStatus),
	})
}
