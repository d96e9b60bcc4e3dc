package domain

import (
	"time"

	"github.com/m04kA/TurnsBookingService/pkg/types"
)

// AppointmentStatus статус записи
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "PENDING"
	StatusConfirmed AppointmentStatus = "CONFIRMED"
	StatusCancelled AppointmentStatus = "CANCELLED"
	StatusCompleted AppointmentStatus = "COMPLETED"
	StatusNoShow    AppointmentStatus = "NO_SHOW"
)

// allowedTransitions допустимые переходы статусов
// CANCELLED, COMPLETED и NO_SHOW - терминальные
var allowedTransitions = map[AppointmentStatus][]AppointmentStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCancelled, StatusCompleted, StatusNoShow},
}

// ParseAppointmentStatus валидирует строковый статус
func ParseAppointmentStatus(s string) (AppointmentStatus, bool) {
	status := AppointmentStatus(s)
	switch status {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted, StatusNoShow:
		return status, true
	}
	return "", false
}

// IsBlocking true, если запись с таким статусом занимает время
func (s AppointmentStatus) IsBlocking() bool {
	return s == StatusPending || s == StatusConfirmed
}

// IsTerminal true для конечных статусов
func (s AppointmentStatus) IsTerminal() bool {
	_, ok := allowedTransitions[s]
	return !ok
}

// CanTransitionTo проверяет допустимость перехода
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Appointment запись клиента к бизнесу на услугу
// Время - настенные часы в часовом поясе бизнеса, интервал [StartTime, EndTime)
type Appointment struct {
	ID              int64
	BusinessID      int64
	ServiceID       int64
	CustomerID      int64
	AppointmentDate time.Time
	StartTime       types.TimeString
	EndTime         types.TimeString
	Status          AppointmentStatus

	// Денормализовано для истории
	ServiceName string
	Notes       *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsBlocking true, если запись занимает слот
func (a *Appointment) IsBlocking() bool {
	return a.Status.IsBlocking()
}

// CanBeCancelled true, если запись ещё можно отменить
func (a *Appointment) CanBeCancelled() bool {
	return a.Status.CanTransitionTo(StatusCancelled)
}

// CanBeRescheduled true, если запись ещё можно перенести
func (a *Appointment) CanBeRescheduled() bool {
	return a.Status.IsBlocking()
}

// Interval интервал записи
func (a *Appointment) Interval() Interval {
	return Interval{Start: a.StartTime, End: a.EndTime}
}

// AppointmentsFilter фильтр для выборки записей бизнеса
type AppointmentsFilter struct {
	BusinessID      int64              // Обязательный параметр
	StartDate       *time.Time         // Начало периода (опционально)
	EndDate         *time.Time         // Конец периода (опционально)
	Status          *AppointmentStatus // Фильтр по статусу (опционально)
	IncludeInactive bool               // Включать ли неблокирующие записи (отменённые, завершённые, no-show)
}

// IsSingleDay true, если фильтр охватывает ровно одну дату
func (f AppointmentsFilter) IsSingleDay() bool {
	return f.StartDate != nil && f.EndDate != nil && f.StartDate.Equal(*f.EndDate)
}
