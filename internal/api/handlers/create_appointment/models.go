package create_appointment

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/TurnsBookingService/internal/domain"
	createAppointment "github.com/m04kA/TurnsBookingService/internal/usecase/create_appointment"
	"github.com/m04kA/TurnsBookingService/pkg/types"
)

// CreateAppointmentRequest HTTP request model
type CreateAppointmentRequest struct {
	BusinessID int64   `json:"businessId"`
	ServiceID  int64   `json:"serviceId"`
	Date       string  `json:"date"`              // "2025-10-15"
	StartTime  string  `json:"startTime"`         // "10:00"
	EndTime    string  `json:"endTime,omitempty"` // "10:30", по умолчанию начало + длительность услуги
	Notes      *string `json:"notes,omitempty"`
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID          int64   `json:"id"`
	BusinessID  int64   `json:"businessId"`
	ServiceID   int64   `json:"serviceId"`
	CustomerID  int64   `json:"customerId"`
	Date        string  `json:"date"`
	StartTime   string  `json:"startTime"`
	EndTime     string  `json:"endTime"`
	Status      string  `json:"status"`
	ServiceName string  `json:"serviceName"`
	Notes       *string `json:"notes,omitempty"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

var (
	errInvalidDate = errors.New("invalid date")
	errInvalidTime = errors.New("invalid time")
)

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateAppointmentRequest) ToUseCaseRequest(customerID int64) (*createAppointment.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidDate, err)
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidTime, err)
	}

	var endTime types.TimeString
	if r.EndTime != "" {
		endTime, err = types.NewTimeStringFromString(r.EndTime)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errInvalidTime, err)
		}
	}

	return &createAppointment.Request{
		CustomerID: customerID,
		BusinessID: r.BusinessID,
		ServiceID:  r.ServiceID,
		Date:       date,
		StartTime:  startTime,
		EndTime:    endTime,
		Notes:      r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createAppointment.Response) *AppointmentResponse {
	return &AppointmentResponse{
		ID:          resp.ID,
		BusinessID:  resp.BusinessID,
		ServiceID:   resp.ServiceID,
		CustomerID:  resp.CustomerID,
		Date:        resp.Date.Format(domain.DateFormat),
		StartTime:   resp.StartTime.String(),
		EndTime:     resp.EndTime.String(),
		Status:      resp.Status,
		ServiceName: resp.ServiceName,
		Notes:       resp.Notes,
		CreatedAt:   resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   resp.UpdatedAt.Format(time.RFC3339),
	}
}
