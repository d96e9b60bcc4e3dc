package reschedule_appointment

import (
	"time"

	"github.com/m04kA/TurnsBookingService/internal/domain"
	rescheduleAppointment "github.com/m04kA/TurnsBookingService/internal/usecase/reschedule_appointment"
	"github.com/m04kA/TurnsBookingService/pkg/types"
)

// RescheduleRequest HTTP request model
type RescheduleRequest struct {
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime,omitempty"`
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
	UpdatedAt   string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *RescheduleRequest) ToUseCaseRequest(userID, appointmentID int64) (*rescheduleAppointment.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	var endTime types.TimeString
	if r.EndTime != "" {
		if endTime, err = types.NewTimeStringFromString(r.EndTime); err != nil {
			return nil, err
		}
	}

	return &rescheduleAppointment.Request{
		UserID:        userID,
		AppointmentID: appointmentID,
		Date:          date,
		StartTime:     startTime,
		EndTime:       endTime,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *rescheduleAppointment.Response) *AppointmentResponse {
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
		UpdatedAt:   resp.UpdatedAt.Format(time.RFC3339),
	}
}
