package upsert_schedule

import (
	"github.com/m04kA/TurnsBookingService/internal/service/schedules/models"
	"github.com/m04kA/TurnsBookingService/pkg/types"
)

// UpsertScheduleRequest HTTP request model
type UpsertScheduleRequest struct {
	StartTime string `json:"startTime"` // "09:00"
	EndTime   string `json:"endTime"`   // "18:00"
	IsActive  *bool  `json:"isActive,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *UpsertScheduleRequest) ToServiceRequest(userID, businessID int64, dayOfWeek int) (*models.UpsertScheduleRequest, error) {
	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	endTime, err := types.NewTimeStringFromString(r.EndTime)
	if err != nil {
		return nil, err
	}

	return &models.UpsertScheduleRequest{
		UserID:     userID,
		BusinessID: businessID,
		DayOfWeek:  dayOfWeek,
		StartTime:  startTime,
		EndTime:    endTime,
		IsActive:   r.IsActive,
	}, nil
}
