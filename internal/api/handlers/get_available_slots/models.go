package get_available_slots

import (
	"time"

	"github.com/m04kA/TurnsBookingService/internal/domain"
	getAvailableSlots "github.com/m04kA/TurnsBookingService/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date       string          `json:"date"`
	BusinessID int64           `json:"businessId"`
	ServiceID  int64           `json:"serviceId"`
	Slots      []AvailableSlot `json:"slots"`
}

// AvailableSlot модель временного слота
type AvailableSlot struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Available bool   `json:"available"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]AvailableSlot, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = AvailableSlot{
			StartTime: slot.StartTime.String(),
			EndTime:   slot.EndTime.String(),
			Available: slot.Available,
		}
	}

	return &AvailableSlotsResponse{
		Date:       resp.Date.Format(domain.DateFormat),
		BusinessID: resp.BusinessID,
		ServiceID:  resp.ServiceID,
		Slots:      slots,
	}
}

// ToUseCaseRequest создает запрос use case из query параметров
func ToUseCaseRequest(userID, businessID, serviceID int64, dateStr string) (*getAvailableSlots.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	return &getAvailableSlots.Request{
		UserID:     userID,
		BusinessID: businessID,
		ServiceID:  serviceID,
		Date:       date,
	}, nil
}
