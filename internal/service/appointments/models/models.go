package models

import (
	"errors"
	"time"

	"github.com/m04kA/TurnsBookingService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid appointment status")
)

// Request модели

// CancelAppointmentRequest запрос на отмену записи
type CancelAppointmentRequest struct {
	UserID             int64   `json:"userId"`
	CancellationReason *string `json:"cancellationReason,omitempty"`
}

// UpdateStatusRequest запрос на смену статуса записи
type UpdateStatusRequest struct {
	UserID int64  `json:"userId"`
	Status string `json:"status"`
}

// GetCustomerAppointmentsRequest запрос на получение записей клиента
type GetCustomerAppointmentsRequest struct {
	UserID     int64   `json:"userId"`     // кто спрашивает
	CustomerID int64   `json:"customerId"` // чьи записи
	Status     *string `json:"status,omitempty"`
}

// GetBusinessAppointmentsRequest запрос на получение записей бизнеса
type GetBusinessAppointmentsRequest struct {
	UserID          int64      `json:"userId"`
	BusinessID      int64      `json:"businessId"`
	StartDate       *time.Time `json:"startDate,omitempty"`       // Начало периода (опционально)
	EndDate         *time.Time `json:"endDate,omitempty"`         // Конец периода (опционально)
	Status          *string    `json:"status,omitempty"`          // Фильтр по статусу (опционально)
	IncludeInactive bool       `json:"includeInactive,omitempty"` // Включить отменённые и завершённые
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetBusinessAppointmentsRequest) ToDomainFilter() (domain.AppointmentsFilter, error) {
	filter := domain.AppointmentsFilter{
		BusinessID:      r.BusinessID,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		IncludeInactive: r.IncludeInactive,
	}

	if r.Status != nil {
		status, err := ToDomainStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
	ID              int64  `json:"id"`
	BusinessID      int64  `json:"businessId"`
	ServiceID       int64  `json:"serviceId"`
	CustomerID      int64  `json:"customerId"`
	AppointmentDate string `json:"appointmentDate"` // "2025-10-15"
	StartTime       string `json:"startTime"`       // "10:00"
	EndTime         string `json:"endTime"`         // "10:30"
	Status          string `json:"status"`

	ServiceName string  `json:"serviceName"`
	Notes       *string `json:"notes,omitempty"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AppointmentListResponse ответ со списком записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}

// FromDomainAppointment конвертирует domain модель в DTO
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	if a == nil {
		return nil
	}

	resp := &AppointmentResponse{
		ID:                 a.ID,
		BusinessID:         a.BusinessID,
		ServiceID:          a.ServiceID,
		CustomerID:         a.CustomerID,
		AppointmentDate:    a.AppointmentDate.Format(domain.DateFormat),
		StartTime:          a.StartTime.String(),
		EndTime:            a.EndTime.String(),
		Status:             string(a.Status),
		ServiceName:        a.ServiceName,
		Notes:              a.Notes,
		CancellationReason: a.CancellationReason,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}

	if a.CancelledAt != nil {
		cancelledStr := a.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainAppointmentList конвертирует список domain моделей в DTO
func FromDomainAppointmentList(appointments []*domain.Appointment) *AppointmentListResponse {
	resp := &AppointmentListResponse{
		Appointments: make([]AppointmentResponse, 0, len(appointments)),
	}

	for _, a := range appointments {
		if r := FromDomainAppointment(a); r != nil {
			resp.Appointments = append(resp.Appointments, *r)
		}
	}

	return resp
}

// ToDomainStatus конвертирует строку в domain.AppointmentStatus с валидацией
func ToDomainStatus(status string) (domain.AppointmentStatus, error) {
	s, ok := domain.ParseAppointmentStatus(status)
	if !ok {
		return "", ErrInvalidStatus
	}
	return s, nil
}
