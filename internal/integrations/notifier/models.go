package notifier

import (
	"time"

	"github.com/m04kA/TurnsBookingService/internal/domain"
)

// EventType тип события о записи
type EventType string

const (
	EventAppointmentCreated     EventType = "appointment.created"
	EventAppointmentRescheduled EventType = "appointment.rescheduled"
	EventAppointmentStatus      EventType = "appointment.status_changed"
	EventAppointmentCancelled   EventType = "appointment.cancelled"
)

// Event событие, которое шлюз рассылает подписчикам бизнеса и клиента
type Event struct {
	Type          EventType `json:"type"`
	AppointmentID int64     `json:"appointmentId"`
	BusinessID    int64     `json:"businessId"`
	CustomerID    int64     `json:"customerId"`
	Date          string    `json:"date"`      // "2025-10-15"
	StartTime     string    `json:"startTime"` // "10:00"
	EndTime       string    `json:"endTime"`
	Status        string    `json:"status"`
	OccurredAt    time.Time `json:"occurredAt"`
}

// NewEvent собирает событие из записи
func NewEvent(eventType EventType, a *domain.Appointment, occurredAt time.Time) Event {
	return Event{
		Type:          eventType,
		AppointmentID: a.ID,
		BusinessID:    a.BusinessID,
		CustomerID:    a.CustomerID,
		Date:          a.AppointmentDate.Format(domain.DateFormat),
		StartTime:     a.StartTime.String(),
		EndTime:       a.EndTime.String(),
		Status:        string(a.Status),
		OccurredAt:    occurredAt,
	}
}

// ErrorResponse модель ошибки от шлюза
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
