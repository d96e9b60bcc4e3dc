package cancel_appointment

import (
	"github.com/m04kA/TurnsBookingService/internal/service/appointments/models"
)

// CancelRequest HTTP request model, тело необязательно
type CancelRequest struct {
	CancellationReason *string `json:"cancellationReason,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *CancelRequest) ToServiceRequest(userID int64) *models.CancelAppointmentRequest {
	return &models.CancelAppointmentRequest{
		UserID:             userID,
		CancellationReason: r.CancellationReason,
	}
}
